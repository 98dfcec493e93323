package client

import "net/http"

// deniedTransport reports 401/403 answers to onDenied before handing the
// response back to the caller unchanged.
type deniedTransport struct {
	next     http.RoundTripper
	onDenied func(status int)
}

func (t *deniedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		t.onDenied(resp.StatusCode)
	}
	return resp, nil
}

// NewAuthorizedHTTPClient returns a copy of base whose transport calls
// onDenied whenever the server answers 401 or 403. It shares base's cookie
// jar, so requests carry the same session as the identity calls.
//
// Use it for every authenticated API call outside the identity endpoints;
// wiring onDenied to the session store's Invalidate clears the local session
// as soon as the server stops honoring it.
func NewAuthorizedHTTPClient(base *http.Client, onDenied func(status int)) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c := *base
	c.Transport = &deniedTransport{next: next, onDenied: onDenied}
	return &c
}
