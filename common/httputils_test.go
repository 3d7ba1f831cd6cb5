package common_test

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"venuedesk/common"

	. "github.com/onsi/gomega"
)

func TestHttpInvokeJson(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should return the response body on success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.Header.Get("Content-Type")).To(Equal("application/json;charset=UTF-8"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer abc"))
			reqBody, _ := ioutil.ReadAll(r.Body)
			Expect(string(reqBody)).To(Equal(`{"k":"v"}`))

			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		headers := http.Header{}
		headers.Set("Authorization", "Bearer abc")
		respBody, err := common.HttpInvokeJson(http.MethodPost, server.URL, headers, `{"k":"v"}`)
		Expect(err).To(BeNil())
		Expect(respBody).To(Equal(`{"ok":true}`))
	})

	t.Run("should wrap non-success statuses with request and response detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream broken`))
		}))
		defer server.Close()

		_, err := common.HttpInvokeJson(http.MethodGet, server.URL, nil, "")
		Expect(err).ToNot(BeNil())
		invokeErr, ok := err.(*common.ErrHttpInvoke)
		Expect(ok).To(BeTrue())
		Expect(invokeErr.StatusCode).To(Equal(http.StatusBadGateway))
		Expect(invokeErr.RespBody).To(Equal(`upstream broken`))
		Expect(invokeErr.Url).To(Equal(server.URL))
	})

	t.Run("should report connection failures", func(t *testing.T) {
		_, err := common.HttpInvokeJson(http.MethodGet, "http://127.0.0.1:1/none", nil, "")
		Expect(err).ToNot(BeNil())
	})
}
