package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func runServer(t *testing.T, creator InvoiceCreator, input string) []Response {
	t.Helper()

	d := NewDispatcher(creator, "key", "https://example.test", discardLogger())
	var out bytes.Buffer
	srv := NewServer(d, ServerInfo{Name: "rapidinvoice-mcp", Version: "1.0.0"}, strings.NewReader(input), &out, discardLogger())

	if err := srv.Run(context.Background()); err != nil {
		t.Fatalf("server run: %v", err)
	}

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", line, err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServerInitialize(t *testing.T) {
	responses := runServer(t, &fakeCreator{}, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`+"\n")

	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %v", responses[0].Error)
	}

	raw, _ := json.Marshal(responses[0].Result)
	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.ServerInfo.Name != "rapidinvoice-mcp" {
		t.Errorf("server name = %q", result.ServerInfo.Name)
	}
	if result.ProtocolVersion != ProtocolVersion {
		t.Errorf("protocol version = %q", result.ProtocolVersion)
	}
}

func TestServerIgnoresNotifications(t *testing.T) {
	input := `{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n"

	responses := runServer(t, &fakeCreator{}, input)
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want only the ping answer", len(responses))
	}
	if string(responses[0].ID) != "2" {
		t.Errorf("response id = %s", responses[0].ID)
	}
}

func TestServerToolsList(t *testing.T) {
	responses := runServer(t, &fakeCreator{}, `{"jsonrpc":"2.0","id":3,"method":"tools/list"}`+"\n")

	raw, _ := json.Marshal(responses[0].Result)
	var result ListToolsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "generar_factura" {
		t.Fatalf("unexpected tools: %+v", result.Tools)
	}
}

func TestServerToolsCall(t *testing.T) {
	creator := &fakeCreator{result: testResult()}
	input := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"generar_factura","arguments":{"clientName":"Acme SL"}}}` + "\n"

	responses := runServer(t, creator, input)
	if responses[0].Error != nil {
		t.Fatalf("unexpected error: %v", responses[0].Error)
	}
	if creator.calls != 1 {
		t.Fatalf("pipeline calls = %d", creator.calls)
	}

	raw, _ := json.Marshal(responses[0].Result)
	var result CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("unexpected content: %+v", result.Content)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	responses := runServer(t, &fakeCreator{}, `{"jsonrpc":"2.0","id":5,"method":"resources/list"}`+"\n")

	if responses[0].Error == nil || responses[0].Error.Code != CodeMethodNotFound {
		t.Fatalf("expected method-not-found, got %v", responses[0].Error)
	}
}

func TestServerParseError(t *testing.T) {
	responses := runServer(t, &fakeCreator{}, "this is not json\n")

	if responses[0].Error == nil || responses[0].Error.Code != CodeParseError {
		t.Fatalf("expected parse error, got %v", responses[0].Error)
	}
	if string(responses[0].ID) != "null" {
		t.Errorf("parse errors answer with a null id, got %s", responses[0].ID)
	}
}

func TestServerSkipsBlankLines(t *testing.T) {
	input := "\n\n" + `{"jsonrpc":"2.0","id":6,"method":"ping"}` + "\n\n"
	responses := runServer(t, &fakeCreator{}, input)
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
}
