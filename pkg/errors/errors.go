package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code       uint16
	Name       string
	HTTPStatus int
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

// Is reports whether err carries this code.
func (c Code[MT]) Is(err error) bool {
	var coded Error
	if !errors.As(err, &coded) {
		return false
	}
	return coded.Code() == c.Code
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	HTTPStatus() int
	Metadata() map[string]string
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithField("name", e.code.Name).
		WithField("code", e.code.Code).
		WithField("metadata", e.metadata)
}

func (e *ErrorImpl[MT]) Metadata() map[string]string {
	// convert any metadata to map[string]string
	metadata := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err == nil {
		var genericMap map[string]any
		if err := json.Unmarshal(buf, &genericMap); err == nil {
			for k, v := range genericMap {
				vStr := ""
				if v != nil {
					vStr = fmt.Sprintf("%v", v)
				}
				metadata[k] = vStr
			}
		}
	}
	return metadata
}

func (e *ErrorImpl[MT]) HTTPStatus() int {
	return e.code.HTTPStatus
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) Unwrap() error {
	return e.cause
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

type AssetMetadata struct {
	AssetId string `json:"asset_id"`
}

type AssetNameMetadata struct {
	AssetId string `json:"asset_id"`
	Name    string `json:"name"`
}

type AddressMetadata struct {
	Field string `json:"field"`
}

type BatchMetadata struct {
	Targets int `json:"targets"`
	Amounts int `json:"amounts"`
}

type BalanceMetadata struct {
	AssetId string `json:"asset_id"`
	Holder  string `json:"holder"`
	Amount  uint64 `json:"amount"`
}

type OperatorMetadata struct {
	Operator string `json:"operator"`
}

var INTERNAL_ERROR = Code[map[string]any]{0, "INTERNAL_ERROR", http.StatusInternalServerError}

var UNAUTHORIZED = Code[OperatorMetadata]{1, "UNAUTHORIZED", http.StatusForbidden}

var PAUSED = Code[map[string]any]{2, "PAUSED", http.StatusLocked}

var INVALID_NAME = Code[map[string]any]{3, "INVALID_NAME", http.StatusBadRequest}

var ZERO_ADDRESS = Code[AddressMetadata]{4, "ZERO_ADDRESS", http.StatusBadRequest}

var ASSET_ALREADY_REGISTERED = Code[AssetNameMetadata]{
	5,
	"ASSET_ALREADY_REGISTERED",
	http.StatusConflict,
}

var ASSET_NOT_REGISTERED = Code[AssetNameMetadata]{
	6,
	"ASSET_NOT_REGISTERED",
	http.StatusNotFound,
}

var LENGTH_MISMATCH = Code[BatchMetadata]{7, "LENGTH_MISMATCH", http.StatusBadRequest}

var INSUFFICIENT_BALANCE = Code[BalanceMetadata]{
	8,
	"INSUFFICIENT_BALANCE",
	http.StatusUnprocessableEntity,
}

var REENTRANT_CALL = Code[AssetMetadata]{9, "REENTRANT_CALL", http.StatusConflict}

var ALREADY_INITIALIZED = Code[map[string]any]{10, "ALREADY_INITIALIZED", http.StatusConflict}
