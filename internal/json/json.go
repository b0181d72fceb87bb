// SPDX-License-Identifier: Apache-2.0

package json

import (
	"github.com/bytedance/sonic"
)

// api matches the encoding/json standard behaviour, including sorted map
// keys. Resolution results must serialise deterministically, so the faster
// default sonic config (unsorted keys) is not an option here.
var api = sonic.ConfigStd

func Unmarshal(b []byte, v any) error {
	return api.Unmarshal(b, v)
}

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}
