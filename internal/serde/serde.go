// Package serde encodes values as JSON for machine-readable output.
package serde

import (
	"sync"

	"github.com/ugorji/go/codec"
)

// resolver holds the shared JSON encoder.
type resolver struct {
	check bool

	jsonEncoder *codec.Encoder
	jsonHandle  codec.JsonHandle

	jsonData []byte

	jsonMu sync.Mutex
}

var gendecoder resolver

func init() {
	if !gendecoder.check {
		gendecoder.jsonHandle = codec.JsonHandle{}
		gendecoder.jsonHandle.Indent = 2
		gendecoder.jsonHandle.HTMLCharsAsIs = true
		gendecoder.jsonHandle.TypeInfos = codec.NewTypeInfos([]string{"json"})

		gendecoder.jsonData = make([]byte, 0, 4096)
		gendecoder.jsonEncoder = codec.NewEncoderBytes(&gendecoder.jsonData, &gendecoder.jsonHandle)

		gendecoder.check = true
	}
}

// MarshalJson encodes v as indented JSON.
func MarshalJson[T any](v T) ([]byte, error) {
	gendecoder.jsonMu.Lock()
	defer gendecoder.jsonMu.Unlock()

	gendecoder.jsonData = gendecoder.jsonData[:0]
	gendecoder.jsonEncoder.ResetBytes(&gendecoder.jsonData)

	if err := gendecoder.jsonEncoder.Encode(v); err != nil {
		return nil, err
	}

	return append([]byte(nil), gendecoder.jsonData...), nil
}
