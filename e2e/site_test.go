//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const homePage = `<!DOCTYPE html>
<html><head><title>Video Conferencing, Cloud Phone, Webinars, Chat, Virtual Events | Zoom</title></head>
<body>
  <a id="btnJoinMeeting" href="/join">Join</a>
  <a class="top-contactsales top-sales" href="/contactsales">Contact Sales</a>
</body></html>`

const joinPage = `<!DOCTYPE html>
<html><head><title>Join Meeting - Zoom</title></head>
<body>
  <input id="join-confno" type="text">
  <button id="btnSubmit" disabled>Join</button>
  <script>
    document.getElementById("join-confno").addEventListener("input", function (e) {
      var btn = document.getElementById("btnSubmit");
      if (e.target.value.length > 0) { btn.removeAttribute("disabled"); } else { btn.setAttribute("disabled", ""); }
    });
  </script>
</body></html>`

const contactPage = `<!DOCTYPE html>
<html><head><title>Contact Sales | Zoom</title></head>
<body>
  <form>
    <input id="email" type="text">
    <input id="company" type="text">
    <input id="first_name" type="text">
    <input id="last_name" type="text">
    <select id="employee_count">
      <option>1-50</option>
      <option>51-250</option>
      <option>251-1000</option>
    </select>
  </form>
  <script>
    document.getElementById("email").addEventListener("blur", function (e) {
      var old = document.querySelector("span[for='email']");
      if (old) { old.remove(); }
      if (!/^[^@\s]+@[^@\s]+\.[^@\s]+$/.test(e.target.value)) {
        var span = document.createElement("span");
        span.setAttribute("for", "email");
        span.setAttribute("class", "has-error help-block");
        span.textContent = "Invalid email address format entered.";
        e.target.after(span);
      }
    });
  </script>
</body></html>`

// pollingPage keeps the network busy the way analytics beacons do
const pollingPage = `<!DOCTYPE html>
<html><head><title>Polling | Zoom</title></head>
<body>
  <button id="noop">Stay</button>
  <a id="toJoin" href="/join">Join</a>
  <script>setInterval(function () { fetch("/ping"); }, 100);</script>
</body></html>`

// startSite serves the fixture pages and returns the base URL
func startSite(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	page := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, body)
		}
	}
	mux.HandleFunc("/{$}", page(homePage))
	mux.HandleFunc("/join", page(joinPage))
	mux.HandleFunc("/contactsales", page(contactPage))
	mux.HandleFunc("/polling", page(pollingPage))
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/"
}
