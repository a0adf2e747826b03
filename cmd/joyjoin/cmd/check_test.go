package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSite struct {
	mu        sync.Mutex
	checks    int
	submitted url.Values
}

func (s *fakeSite) handler() http.Handler {
	answer := func(ok func(v string) bool, param string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			s.checks++
			s.mu.Unlock()
			if ok(r.PostFormValue(param)) {
				_, _ = w.Write([]byte("true"))
				return
			}
			_, _ = w.Write([]byte("false"))
		}
	}

	r := chi.NewRouter()
	r.Post("/register/is_login_unused/", answer(func(v string) bool { return v != "admin" }, "login"))
	r.Post("/register/is_password_uncommon/", answer(func(v string) bool { return v != "password1" }, "password"))
	r.Post("/register/is_age_ok/", answer(func(v string) bool { return v < "2014-01-01" }, "date"))
	r.Post("/register/complete/", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		s.mu.Lock()
		s.submitted = r.PostForm
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("JOYJOIN_CONFIG", "")
	t.Setenv("HOME", t.TempDir())

	// flag values outlive a single Execute
	cfgFile, verbose, baseURL, csrfToken, stalePolicy, metricsAddr = "", false, "", "", "", ""
	checkLogin, checkName, checkEmail = "", "", ""
	checkPassword, checkPassword2, checkBirthDate = "", "", ""
	checkAcceptRules, checkSubmit, checkWait = false, false, 10*time.Second

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func validArgs(base string) []string {
	return []string{
		"check",
		"--base-url", base,
		"--login", "kasia_92",
		"--name", "Katarzyna Łęcka",
		"--email", "kasia@joyjoin.pl",
		"--password", "abc12345",
		"--birth-date", "17.05.1990",
		"--accept-rules",
	}
}

func TestCheck_Submit(t *testing.T) {
	site := &fakeSite{}
	srv := httptest.NewServer(site.handler())
	defer srv.Close()

	out, err := runCLI(t, append(validArgs(srv.URL), "--submit")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Registration sent.")

	site.mu.Lock()
	defer site.mu.Unlock()
	require.NotNil(t, site.submitted)
	assert.Equal(t, "kasia_92", site.submitted.Get("login"))
	assert.Equal(t, "abc12345", site.submitted.Get("password2"))
	assert.Equal(t, "1990-05-17", site.submitted.Get("birth_date"))
	assert.Equal(t, "on", site.submitted.Get("rules"))
}

func TestCheck_DryRun(t *testing.T) {
	site := &fakeSite{}
	srv := httptest.NewServer(site.handler())
	defer srv.Close()

	out, err := runCLI(t, validArgs(srv.URL)...)
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")

	site.mu.Lock()
	defer site.mu.Unlock()
	assert.Nil(t, site.submitted)
	assert.Equal(t, 3, site.checks)
}

func TestCheck_Incomplete(t *testing.T) {
	site := &fakeSite{}
	srv := httptest.NewServer(site.handler())
	defer srv.Close()

	args := []string{
		"check",
		"--base-url", srv.URL,
		"--login", "admin",
		"--name", "Jan",
		"--email", "jan@joyjoin.pl",
		"--password", "abc12345",
		"--password2", "abc12346",
		"--birth-date", "2020-01-01",
		"--submit",
	}
	out, err := runCLI(t, args...)
	assert.ErrorIs(t, err, errNotSubmittable)

	assert.Contains(t, out, "This login is already taken.")
	assert.Contains(t, out, "Passwords differ.")
	assert.Contains(t, out, "You must be between 12 and 120 years old.")
	assert.Contains(t, out, "You must accept the rules.")
	assert.Contains(t, out, "Form is incomplete.")

	site.mu.Lock()
	defer site.mu.Unlock()
	assert.Nil(t, site.submitted)
}

func TestCheck_InvalidStalePolicy(t *testing.T) {
	_, err := runCLI(t, "check", "--stale-responses", "first")
	assert.ErrorContains(t, err, "stale_responses")
}
