package command

import (
	"testing"
	"time"

	"github.com/vh012/wiredaemon/internal/resp/store"
	"github.com/vh012/wiredaemon/internal/resp/types"
)

func bulk(s string) types.Value {
	return types.BulkString(&s)
}

func array(vs ...types.Value) types.Value {
	return types.Array(vs)
}

func TestPing(t *testing.T) {
	s := store.New()
	got := Dispatch(s, array(bulk("PING")))
	want := types.SimpleString("PONG")
	if !got.Equal(want) {
		t.Errorf("Dispatch(PING) = %v, want %v", got, want)
	}
}

func TestPingWrongArity(t *testing.T) {
	s := store.New()
	got := Dispatch(s, array(bulk("PING"), bulk("extra")))
	if got.Kind != types.KindError {
		t.Errorf("Dispatch(PING extra) = %v, want an Error value", got)
	}
}

func TestEcho(t *testing.T) {
	s := store.New()
	got := Dispatch(s, array(bulk("ECHO"), bulk("hello")))
	want := bulk("hello")
	if !got.Equal(want) {
		t.Errorf("Dispatch(ECHO hello) = %v, want %v", got, want)
	}
}

func TestSetThenGet(t *testing.T) {
	s := store.New()

	setReply := Dispatch(s, array(bulk("SET"), bulk("key"), bulk("value")))
	if !setReply.Equal(types.SimpleString("OK")) {
		t.Fatalf("Dispatch(SET) = %v, want OK", setReply)
	}

	getReply := Dispatch(s, array(bulk("GET"), bulk("key")))
	if !getReply.Equal(bulk("value")) {
		t.Errorf("Dispatch(GET key) = %v, want %v", getReply, bulk("value"))
	}
}

func TestGetMissReturnsNullBulkString(t *testing.T) {
	s := store.New()
	got := Dispatch(s, array(bulk("GET"), bulk("absent")))
	if got.Kind != types.KindBulkString || !got.IsNull() {
		t.Errorf("Dispatch(GET absent) = %v, want null BulkString", got)
	}
}

func TestSetWithPXExpiresThenGetReturnsNullBulkString(t *testing.T) {
	s := store.New()

	Dispatch(s, array(bulk("SET"), bulk("key"), bulk("value"), bulk("PX"), bulk("1")))
	time.Sleep(10 * time.Millisecond)

	reply := Dispatch(s, array(bulk("GET"), bulk("key")))
	if reply.Kind != types.KindBulkString || !reply.IsNull() {
		t.Errorf("Dispatch(GET key) after expiry = %v, want null BulkString", reply)
	}
}

func TestSetWithUnsupportedOptionIsError(t *testing.T) {
	s := store.New()
	got := Dispatch(s, array(bulk("SET"), bulk("key"), bulk("value"), bulk("XX"), bulk("1")))
	if got.Kind != types.KindError {
		t.Errorf("Dispatch(SET ... XX 1) = %v, want an Error value", got)
	}
}

func TestUnknownCommandIsError(t *testing.T) {
	s := store.New()
	got := Dispatch(s, array(bulk("NOPE")))
	if got.Kind != types.KindError {
		t.Errorf("Dispatch(NOPE) = %v, want an Error value", got)
	}
}

func TestNonArrayRequestIsError(t *testing.T) {
	s := store.New()
	got := Dispatch(s, types.Integer(1))
	if got.Kind != types.KindError {
		t.Errorf("Dispatch(Integer) = %v, want an Error value", got)
	}
}
