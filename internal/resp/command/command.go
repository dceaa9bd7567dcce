// Package command implements the command engine: PING, ECHO, SET, and GET
// over a resp/store.Store, dispatched from a decoded RESP array.
package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/vh012/wiredaemon/internal/errors"
	"github.com/vh012/wiredaemon/internal/resp/store"
	"github.com/vh012/wiredaemon/internal/resp/types"
)

// Dispatch executes req (expected to be a RESP array whose first element
// names the command) against s and returns the reply value. Any failure to
// parse or execute the command — wrong type, unknown name, bad arity, a
// malformed TTL option — is translated to a RESP Error value rather than a
// Go error, so the caller can always write the result straight back to the
// connection and keep serving it.
func Dispatch(s *store.Store, req types.Value) types.Value {
	reply, err := perform(s, req)
	if err != nil {
		return types.Error("ERR " + err.Error())
	}
	return reply
}

func perform(s *store.Store, req types.Value) (types.Value, error) {
	if req.Kind != types.KindArray || req.Items == nil || len(req.Items) == 0 {
		return types.Value{}, &errors.CommandError{Command: "", Message: "expected a non-empty array request"}
	}

	args := req.Items

	name, ok := bulkText(args[0])
	if !ok {
		return types.Value{}, &errors.CommandError{Command: "", Message: "command name must be a bulk string"}
	}
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "ping":
		if len(args) != 1 {
			return types.Value{}, &errors.CommandError{Command: "PING", Message: "wrong number of arguments"}
		}
		return types.SimpleString("PONG"), nil

	case "echo":
		if len(args) != 2 {
			return types.Value{}, &errors.CommandError{Command: "ECHO", Message: "wrong number of arguments"}
		}
		return args[1], nil

	case "set":
		return doSet(s, args)

	case "get":
		if len(args) != 2 {
			return types.Value{}, &errors.CommandError{Command: "GET", Message: "wrong number of arguments"}
		}
		value, found := s.Get(args[1])
		if !found {
			return types.BulkString(nil), nil
		}
		return value, nil

	default:
		return types.Value{}, &errors.CommandError{Command: strings.ToUpper(name), Message: "unknown command"}
	}
}

func doSet(s *store.Store, args []types.Value) (types.Value, error) {
	if len(args) != 3 && len(args) != 5 {
		return types.Value{}, &errors.CommandError{Command: "SET", Message: "wrong number of arguments"}
	}

	key := args[1]
	value := args[2]

	var ttl *time.Duration
	if len(args) == 5 {
		opt, ok := bulkText(args[3])
		if !ok {
			return types.Value{}, &errors.CommandError{Command: "SET", Message: "TTL option must be a bulk string"}
		}

		numText, ok := bulkText(args[4])
		if !ok {
			return types.Value{}, &errors.CommandError{Command: "SET", Message: "TTL value must be a bulk string"}
		}

		n, err := strconv.ParseUint(numText, 10, 64)
		if err != nil {
			return types.Value{}, &errors.CommandError{Command: "SET", Message: "TTL value must be a non-negative integer"}
		}

		switch strings.ToLower(strings.TrimSpace(opt)) {
		case "px":
			d := time.Duration(n) * time.Millisecond
			ttl = &d
		case "ex":
			d := time.Duration(n) * time.Second
			ttl = &d
		default:
			return types.Value{}, &errors.CommandError{Command: "SET", Message: "unsupported SET option"}
		}
	}

	s.Insert(key, value, ttl)
	return types.SimpleString("OK"), nil
}

func bulkText(v types.Value) (string, bool) {
	if v.Kind != types.KindBulkString || v.Str == nil {
		return "", false
	}
	return *v.Str, true
}
