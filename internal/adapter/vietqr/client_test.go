package vietqr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	testhelpers "github.com/quangND1998/app-p2p/internal/test"
)

func TestGenerateDecodesDataURL(t *testing.T) {
	image := []byte("fake png bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != generatePath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-client-id") != "client" || r.Header.Get("x-api-key") != "key" {
			t.Error("credentials headers missing")
		}

		var payload generatePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.AccountNo != "0123456789" || payload.AcqID != "970436" {
			t.Errorf("unexpected payload: %+v", payload)
		}
		if payload.Amount != 250000 || payload.Template != "rc9Vk60" {
			t.Errorf("unexpected payload: %+v", payload)
		}

		fmt.Fprintf(w, `{"code":"00","desc":"ok","data":{"qrDataURL":"data:image/png;base64,%s"}}`,
			base64.StdEncoding.EncodeToString(image))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "client", "key", testhelpers.NewLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := client.Generate(context.Background(), GenerateRequest{
		AccountNo:   "0123456789",
		AccountName: "NGUYEN VAN A",
		AcqID:       "970436",
		AddInfo:     "ref123",
		Amount:      250000,
		Template:    "rc9Vk60",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(image) {
		t.Fatalf("image bytes mismatch: %q", got)
	}
}

func TestGenerateRejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"42","desc":"invalid acqId","data":{}}`)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "client", "key", testhelpers.NewLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := client.Generate(context.Background(), GenerateRequest{}); err == nil {
		t.Fatal("expected error for rejected request")
	}
}

func TestDecodeDataURL(t *testing.T) {
	got, err := decodeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "png" {
		t.Fatalf("unexpected bytes: %q", got)
	}

	if _, err := decodeDataURL("no comma here"); err == nil {
		t.Fatal("expected error for malformed data url")
	}
	if _, err := decodeDataURL("data:image/png;base64,!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestBanksMapsFlags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != banksPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[
			{"code":"VCB","name":"Ngân hàng TMCP Ngoại Thương Việt Nam","shortName":"Vietcombank","bin":"970436","transferSupported":1,"lookupSupported":1},
			{"code":"XXX","name":"No Transfer Bank","shortName":"NTB","bin":"970000","transferSupported":0,"lookupSupported":1}
		]}`)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "client", "key", testhelpers.NewLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	banks, err := client.Banks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(banks) != 2 {
		t.Fatalf("expected 2 banks, got %d", len(banks))
	}
	if banks[0].BIN != "970436" || !banks[0].TransferSupported {
		t.Fatalf("unexpected first bank: %+v", banks[0])
	}
	if banks[1].TransferSupported || !banks[1].LookupSupported {
		t.Fatalf("flags not mapped: %+v", banks[1])
	}
}
