package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

// PathDashboard is the dashboard endpoint relative to the API base URL.
const PathDashboard = "/dashboard"

// ErrNotLoggedIn is returned by Summary when the store holds no user, so
// no request is sent.
var ErrNotLoggedIn = errors.New("not logged in")

// LoginChecker is the one bit of session state the dashboard consumes.
type LoginChecker interface {
	IsAuthenticated() bool
}

// DashboardService fetches the authenticated user's dashboard.
type DashboardService interface {
	Summary(ctx context.Context) (*models.Dashboard, error)
}

type dashboardService struct {
	baseURL string
	http    *http.Client
	session LoginChecker
	log     logging.Logger
}

// NewDashboardService builds a DashboardService. hc should come from
// client.NewAuthorizedHTTPClient so that a 401/403 here also ends the
// local session.
func NewDashboardService(baseURL string, hc *http.Client, sess LoginChecker, log logging.Logger) DashboardService {
	if log == nil {
		log = logging.NewNop()
	}
	return &dashboardService{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		session: sess,
		log:     log,
	}
}

// Summary returns the dashboard payload. Errors wrap the client sentinels:
// ErrUnauthorized for 401/403, ErrRejected for other non-2xx answers,
// ErrUnavailable for transport failures and ErrMalformedResponse for bodies
// that are not JSON.
func (s *dashboardService) Summary(ctx context.Context) (*models.Dashboard, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+PathDashboard, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", client.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", client.ErrRejected, resp.StatusCode)
	}

	var d models.Dashboard
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrMalformedResponse, err)
	}
	s.log.Debug(ctx, "dashboard fetched", "keys", len(d.Data))
	return &d, nil
}
