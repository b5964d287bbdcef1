package util

import (
	"crypto/sha1"
	"encoding/hex"
	"hash"
)

// Sha1Writer 在写入的同时计算 sha1，配合 io.MultiWriter 使用。
type Sha1Writer struct {
	h hash.Hash
}

func NewSha1Writer() *Sha1Writer {
	return &Sha1Writer{h: sha1.New()}
}

func (w *Sha1Writer) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

func (w *Sha1Writer) Sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}
