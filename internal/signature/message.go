package signature

import "sync"

// LazyMessage is a message that is only materialized when a verifier first
// asks for its bytes. The result is cached.
type LazyMessage struct {
	once  sync.Once
	build func() []byte
	bytes []byte
}

func NewLazyMessage(build func() []byte) *LazyMessage {
	return &LazyMessage{build: build}
}

// RawMessage wraps bytes that are already materialized.
func RawMessage(b []byte) *LazyMessage {
	m := &LazyMessage{bytes: b}
	m.once.Do(func() {})
	return m
}

func (m *LazyMessage) Bytes() []byte {
	m.once.Do(func() {
		m.bytes = m.build()
		m.build = nil
	})
	return m.bytes
}
