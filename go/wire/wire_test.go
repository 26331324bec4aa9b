package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestMarshalSingleKey(t *testing.T) {
	b, err := json.Marshal(NewTopicRequest("doc://com.example.Docs/Foo/Bar"))
	require.NoError(t, err)
	require.JSONEq(t, `{"topic":"doc://com.example.Docs/Foo/Bar"}`, string(b))

	b, err = json.Marshal(NewSymbolRequest("s:3Foo3BarC"))
	require.NoError(t, err)
	require.JSONEq(t, `{"symbol":"s:3Foo3BarC"}`, string(b))

	b, err = json.Marshal(NewAssetRequest("logo.png", "com.example.Docs"))
	require.NoError(t, err)
	require.JSONEq(t, `{"asset":{"assetName":"logo.png","bundleIdentifier":"com.example.Docs"}}`, string(b))
}

func TestRequestMarshalRejectsEmptyOrAmbiguous(t *testing.T) {
	_, err := json.Marshal(Request{})
	require.Error(t, err)

	url := "doc://x/y"
	sym := "s:foo"
	_, err = json.Marshal(Request{Topic: &url, Symbol: &sym})
	require.Error(t, err)
}

func TestRequestUnmarshalRoundTrip(t *testing.T) {
	var r Request
	require.NoError(t, json.Unmarshal([]byte(`{"topic":"doc://x/y"}`), &r))
	require.NotNil(t, r.Topic)
	require.Equal(t, "doc://x/y", *r.Topic)
	require.Nil(t, r.Symbol)
	require.Nil(t, r.Asset)
}

func TestRequestUnmarshalRejectsMultipleKeys(t *testing.T) {
	var r Request
	err := json.Unmarshal([]byte(`{"topic":"doc://x/y","symbol":"s:foo"}`), &r)
	require.Error(t, err)
}

func TestRequestUnmarshalRejectsUnknownKey(t *testing.T) {
	var r Request
	err := json.Unmarshal([]byte(`{"bogus":"nope"}`), &r)
	require.Error(t, err)
	var unrecognized *UnrecognizedKeyError
	require.ErrorAs(t, err, &unrecognized)
	require.Equal(t, "bogus", unrecognized.Key)
}

func TestRequestUnmarshalRejectsEmptyObject(t *testing.T) {
	var r Request
	err := json.Unmarshal([]byte(`{}`), &r)
	require.Error(t, err)
}

func TestResponseRoundTrip(t *testing.T) {
	cases := []string{
		`{"bundleIdentifier":"com.example.Docs"}`,
		`{"errorMessage":"unknown topic"}`,
		`{"asset":{"filename":"logo.png","contentType":"image/png","data":""}}`,
	}
	for _, line := range cases {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		b, err := json.Marshal(resp)
		require.NoError(t, err)
		require.JSONEq(t, line, string(b))
	}
}

func TestResponseResolvedInformation(t *testing.T) {
	const line = `{"resolvedInformation":{"kind":{"name":"Class","id":"class","isSymbol":true},"url":"https://x/Foo/Bar","title":"Bar","abstract":"A class.","language":{"name":"Swift","id":"swift"},"availableLanguages":[{"name":"Swift","id":"swift"}],"platforms":null,"declarationFragments":null}}`

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	require.NotNil(t, resp.ResolvedInformation)
	require.Equal(t, "Class", resp.ResolvedInformation.Kind.Name)
	require.True(t, resp.ResolvedInformation.Kind.IsSymbol)
	require.Equal(t, "https://x/Foo/Bar", resp.ResolvedInformation.URL)
	require.Nil(t, resp.ResolvedInformation.Platforms)
}

func TestResponseUnmarshalRejectsMultipleKeys(t *testing.T) {
	var resp Response
	err := json.Unmarshal([]byte(`{"bundleIdentifier":"x","errorMessage":"y"}`), &resp)
	require.Error(t, err)
}

func TestResponseUnmarshalRejectsUnknownKey(t *testing.T) {
	var resp Response
	err := json.Unmarshal([]byte(`{"somethingElse":"x"}`), &resp)
	require.Error(t, err)
	var unrecognized *UnrecognizedKeyError
	require.ErrorAs(t, err, &unrecognized)
	require.Equal(t, "somethingElse", unrecognized.Key)
}

func TestRequestDescription(t *testing.T) {
	require.Equal(t, `topic: "doc://x/y"`, NewTopicRequest("doc://x/y").Description())
	require.Equal(t, `symbol: "s:foo"`, NewSymbolRequest("s:foo").Description())
	require.Equal(t, `asset: "logo.png" in bundle "com.example.Docs"`, NewAssetRequest("logo.png", "com.example.Docs").Description())
}
