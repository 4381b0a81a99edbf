package model

import (
	"github.com/google/uuid"
)

type (
	// SessionId identifies a single client process (Client Instance Identifier).
	// It is used only to recognize own writes echoed back by the subscription channel.
	SessionId string
)

// NewSessionId generates a random SessionId.
func NewSessionId() SessionId {
	return SessionId(uuid.New().String())
}

// String implements the stringer interface.
func (id SessionId) String() string {
	return string(id)
}

type OperationType string

const (
	ListOperationType   OperationType = "list"
	CreateOperationType OperationType = "create"
	UpdateOperationType OperationType = "update"
	DeleteOperationType OperationType = "delete"
)
