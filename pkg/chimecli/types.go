package chimecli

import (
	"encoding/json"

	"github.com/chimed/chimed/common"
)

type Request struct {
	Method  common.UpdateType `json:"method"`
	Message any               `json:"data,omitempty"`
}

type Response struct {
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

type Update struct {
	Type    common.UpdateType `json:"type"`
	Message json.RawMessage   `json:"message"`
}
