package zip

import (
	"archive/zip"
	"bytes"
)

// Asset is a single file destined for a zip archive.
type Asset struct {
	Filename string
	Data     []byte
}

// Archive packs the assets into an in-memory zip, preserving order.
func Archive(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		w, err := zw.Create(asset.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
