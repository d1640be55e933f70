package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rankitpro-api/pkg/config"
)

func TestTwilioSender_EnviaFormulario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001111", r.PostForm.Get("To"))
		assert.Equal(t, "Hola", r.PostForm.Get("Body"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewTwilioSender(config.SMSConfig{AccountSID: "AC123", AuthToken: "secret", From: "+15559999999", BaseURL: srv.URL})
	assert.NoError(t, s.SendSMS(context.Background(), "+15550001111", "Hola"))
}

func TestTwilioSender_ErrorDelProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	}))
	defer srv.Close()

	s := NewTwilioSender(config.SMSConfig{AccountSID: "AC123", AuthToken: "secret", BaseURL: srv.URL})
	err := s.SendSMS(context.Background(), "123", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
}

func TestTwilioSender_SinCredenciales(t *testing.T) {
	s := NewTwilioSender(config.SMSConfig{})
	assert.Error(t, s.SendSMS(context.Background(), "+1", "x"))
}
