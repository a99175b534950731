package main

import (
	"encoding/hex"

	"github.com/echenim/bedrock/primitives"
)

// responseOutput is the JSON shape ExecuteBlock's response is rendered as
// on stdout: byte fields are hex-encoded the same way blockInput reads
// them back in.
type responseOutput struct {
	APIVersion   uint32          `json:"api_version"`
	Status       string          `json:"status"`
	NewStateRoot string          `json:"new_state_root"`
	GasUsed      uint64          `json:"gas_used"`
	Receipts     []receiptOutput `json:"receipts"`
	Events       []eventOutput   `json:"events,omitempty"`
	Logs         []logLineOutput `json:"logs,omitempty"`
}

type receiptOutput struct {
	TxIndex    uint32 `json:"tx_index"`
	Success    bool   `json:"success"`
	GasUsed    uint64 `json:"gas_used"`
	ResultCode uint32 `json:"result_code"`
	ReturnData string `json:"return_data,omitempty"`
}

type eventOutput struct {
	TxIndex    uint32            `json:"tx_index"`
	EventType  string            `json:"event_type"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type logLineOutput struct {
	Level   uint32 `json:"level"`
	Message string `json:"message"`
}

func renderResponse(resp *primitives.ExecutionResponse) responseOutput {
	out := responseOutput{
		APIVersion:   resp.APIVersion,
		Status:       resp.Status.String(),
		NewStateRoot: "0x" + hex.EncodeToString(resp.NewStateRoot[:]),
		GasUsed:      resp.GasUsed,
		Receipts:     make([]receiptOutput, len(resp.Receipts)),
	}

	for i, r := range resp.Receipts {
		out.Receipts[i] = receiptOutput{
			TxIndex:    r.TxIndex,
			Success:    r.Success,
			GasUsed:    r.GasUsed,
			ResultCode: r.ResultCode,
			ReturnData: hex.EncodeToString(r.ReturnData),
		}
	}

	for _, e := range resp.Events {
		attrs := make(map[string]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Key] = hex.EncodeToString(a.Value)
		}
		out.Events = append(out.Events, eventOutput{
			TxIndex:    e.TxIndex,
			EventType:  e.EventType,
			Attributes: attrs,
		})
	}

	for _, l := range resp.Logs {
		out.Logs = append(out.Logs, logLineOutput{Level: l.Level, Message: l.Message})
	}

	return out
}
