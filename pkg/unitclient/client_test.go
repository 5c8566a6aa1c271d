package unitclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Adda-Baaj/unit-service/internal/domain"
	"github.com/Adda-Baaj/unit-service/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertSendsQueryParameters(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/units/convert", r.URL.Path)
		got = r.URL.Query()
		_, _ = w.Write([]byte(`{"originalValue":0,"originalUnit":"Fahrenheit","convertedValue":-17.7778,"targetUnit":"Celsius"}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1/units/", httpclient.NewRestyClient(0))
	res, err := c.Convert(context.Background(), 0, "f", "c")
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"value": {"0"}, "fromUnit": {"f"}, "toUnit": {"c"}}, got)
	assert.Equal(t, "Fahrenheit", res.OriginalUnit)
	assert.InDelta(t, -17.7778, res.ConvertedValue, 1e-9)
}

func TestConvertBulkPostsConversionsInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/convert/bulk", r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"conversions":[{"value":32,"fromUnit":"f","toUnit":"c"},{"value":100,"fromUnit":"c","toUnit":"f"}]}`, string(raw))
		_, _ = w.Write([]byte(`[{"originalValue":32,"originalUnit":"Fahrenheit","convertedValue":0,"targetUnit":"Celsius"},{"originalValue":100,"originalUnit":"Celsius","convertedValue":212,"targetUnit":"Fahrenheit"}]`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, nil).ConvertBulk(context.Background(), []domain.ConversionRequest{
		{Value: 32, FromUnit: "f", ToUnit: "c"},
		{Value: 100, FromUnit: "c", ToUnit: "f"},
	})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 0.0, res[0].ConvertedValue)
	assert.Equal(t, 212.0, res[1].ConvertedValue)
}

func TestConvertBulkSendsEmptyListForNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "[]", string(body["conversions"]))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, nil).ConvertBulk(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestUnitInfoSendsNoQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[{"unit":"Celsius","minimumValue":-273.15,"maximumValue":1.7976931348623157e308}]`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, nil).UnitInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Celsius", res[0].Unit)
}

func TestNon2xxReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).UnitInfo(context.Background())
	se, ok := AsStatusError(err)
	require.True(t, ok, "expected StatusError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "boom\n", string(se.Body))
	assert.Equal(t, "status 500: boom", se.Error())
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Convert(context.Background(), 1, "c", "k")
	require.Error(t, err)
	_, isStatus := AsStatusError(err)
	assert.False(t, isStatus)
	assert.Contains(t, err.Error(), "decode response")
}
