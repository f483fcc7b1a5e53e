package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realIPOf(t *testing.T, trusted []string, remote string, headers map[string]string) string {
	t.Helper()
	prefixes, err := ParseTrustedProxies(trusted)
	require.NoError(t, err)

	var got string
	h := RealIP(prefixes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r)
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remote
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	h.ServeHTTP(httptest.NewRecorder(), r)
	return got
}

func TestRealIP(t *testing.T) {
	proxies := []string{"10.0.0.0/8", "127.0.0.1"}

	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{"sem proxies configurados ignora cabeçalhos", nil, "203.0.113.7:4000",
			map[string]string{"X-Forwarded-For": "1.1.1.1"}, "203.0.113.7"},
		{"par não confiável ignora cabeçalhos", proxies, "203.0.113.7:4000",
			map[string]string{"X-Forwarded-For": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, "203.0.113.7"},
		{"proxy confiável usa o salto mais à direita fora da lista", proxies, "10.0.0.2:4000",
			map[string]string{"X-Forwarded-For": "1.1.1.1, 198.51.100.4, 10.0.0.9"}, "198.51.100.4"},
		{"todos os saltos confiáveis usa o mais à esquerda", proxies, "127.0.0.1:4000",
			map[string]string{"X-Forwarded-For": "10.1.1.1, 10.0.0.9"}, "10.1.1.1"},
		{"sem XFF usa X-Real-IP", proxies, "10.0.0.2:4000",
			map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"XFF inválido mantém o par", proxies, "10.0.0.2:4000",
			map[string]string{"X-Forwarded-For": "lixo"}, "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, realIPOf(t, tt.trusted, tt.remote, tt.headers))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies([]string{" 10.0.0.0/8 ", "", "::1", "192.168.1.7"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "10.0.0.0/8", got[0].String())
	assert.Equal(t, "::1/128", got[1].String())
	assert.Equal(t, "192.168.1.7/32", got[2].String())

	_, err = ParseTrustedProxies([]string{"não-é-ip"})
	assert.Error(t, err)
}
