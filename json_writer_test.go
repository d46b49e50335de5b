package camsfolio

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("ordered fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", 1)
		w.Append("a", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"b":1,"a":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // a zero value is still added by Append.
		w.Optional("b", "")
		w.Optional("c", 0)
		w.Optional("d", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"a":0,"d":"hello"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("ch", make(chan int))
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() expected an error for a channel value")
		}
	})
}

func TestMoney_MarshalJSON(t *testing.T) {
	got, err := json.Marshal(INR(1500.456))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"currency":"INR","amount":"1500.46"}`
	if string(got) != want {
		t.Errorf("json.Marshal(INR(1500.456)) = %s, want %s", got, want)
	}
}
