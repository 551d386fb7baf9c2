// Package response defines the {status, message, data} envelope. The API
// renders every reply through it and the client decodes replies with it.
package response

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
)

// Envelope is the wire shape of every reply. Status mirrors the HTTP status.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Raw is a reply whose data is left for the caller to decode once the
// status is known.
type Raw = Envelope[json.RawMessage]

const (
	MessageOK                  = "ok"
	MessageCreated             = "created"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

// Reply writes data in the envelope. Out-of-range statuses become 500 and
// an empty message falls back to MessageFor.
func Reply(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = MessageFor(status)
	}
	return c.Status(status).JSON(Envelope[any]{Status: status, Message: message, Data: data})
}

func OK(c fiber.Ctx, data any) error {
	return Reply(c, fiber.StatusOK, MessageOK, data)
}

func Created(c fiber.Ctx, data any) error {
	return Reply(c, fiber.StatusCreated, MessageCreated, data)
}

// List replies 200 with items, rendering a nil slice as [] so clients never
// see a null list.
func List[T any](c fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	return OK(c, items)
}

// Decode parses a reply body. An empty body yields a zero Raw, and a null
// data field is returned as nil Data.
func Decode(body []byte) (Raw, error) {
	var env Raw
	if len(bytes.TrimSpace(body)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Raw{}, err
	}
	if bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		env.Data = nil
	}
	return env, nil
}

// MessageFor is the message used when a reply carries none of its own.
func MessageFor(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusCreated:
		return MessageCreated
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
