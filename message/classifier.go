// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package message

var (
	_ Classifier = ClassifierFunc(nil)

	// FloodClassifier marks the messages with a flooded opcode as flood.
	FloodClassifier Classifier = ClassifierFunc(func(msg Message) bool {
		return msg.Op().IsFlood()
	})
)

// Classifier decides whether a message is flood traffic.
type Classifier interface {
	IsFlood(msg Message) bool
}

type ClassifierFunc func(msg Message) bool

func (f ClassifierFunc) IsFlood(msg Message) bool {
	return f(msg)
}
