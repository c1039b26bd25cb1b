package finance

import "testing"

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

	t.Run("insertion order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("record", "wallet").Append("id", 1).Append("name", "Main Wallet")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"record":"wallet","id":1,"name":"Main Wallet"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("settled", false)
		w.Optional("description", "")
		w.Optional("count", 0)
		w.Optional("category", "Food")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"settled":false,"category":"Food"}`
		if string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("bad", func() {}).Append("ok", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("expected an error marshaling a func")
		}
	})
}
