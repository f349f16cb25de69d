package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/services/commands"
)

const NextRevisionHeader = "X-Next-Revision"

// reverseProxyURL forwards /api/... requests to the collaborator base URL,
// keeping the caller's Authorization and Cookie headers.
func reverseProxyURL(target string) (*httputil.ReverseProxy, error) {
	base, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid collaborator url %q: %w", target, err)
	}
	basePath := strings.TrimRight(base.Path, "/")

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = base.Scheme
			pr.Out.URL.Host = base.Host
			pr.Out.URL.Path = basePath + strings.TrimPrefix(pr.In.URL.Path, "/api")
			pr.Out.URL.RawPath = ""
			pr.Out.Host = base.Host
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			// CORS is answered by this service; drop the collaborator's own headers.
			for key := range resp.Header {
				if strings.HasPrefix(key, "Access-Control-") {
					resp.Header.Del(key)
				}
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.Logger.Errorf("Event ID: PROXY_FAILED, Description: Forwarding %s %s failed: %v", r.Method, r.URL.Path, err)
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{"error": "backend unavailable, try again", "retryable": true})
		},
	}
	return proxy, nil
}

// AddTeamMember checks the caller may manage the target team, then forwards.
func (h *Handler) AddTeamMember(proxy http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		teamID, err := teamIDFromBody(body)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := commands.AuthorizeTeamMemberAdd(r.Context(), h.Commands, identity(r), teamID); err != nil {
			writeError(w, r, err)
			return
		}
		logging.Logger.Infof("Event ID: TEAM_MEMBER_ADD, Description: Employee %d adds a member to team %d", identity(r).EmployeeID, teamID)

		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		proxy.ServeHTTP(w, r)
	}
}

// RemoveTeamMember checks the caller may manage the membership's team, then forwards.
func (h *Handler) RemoveTeamMember(proxy http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := commands.AuthorizeTeamMemberRemove(r.Context(), h.Commands, identity(r), memberID); err != nil {
			writeError(w, r, err)
			return
		}
		logging.Logger.Infof("Event ID: TEAM_MEMBER_REMOVE, Description: Employee %d removes team membership %d", identity(r).EmployeeID, memberID)
		proxy.ServeHTTP(w, r)
	}
}

// teamIDFromBody accepts {"teamId": n} or {"team": {"id": n}}.
func teamIDFromBody(body []byte) (int64, error) {
	var payload struct {
		TeamID int64 `json:"teamId"`
		Team   *struct {
			ID int64 `json:"id"`
		} `json:"team"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	if payload.TeamID == 0 && payload.Team != nil {
		payload.TeamID = payload.Team.ID
	}
	if payload.TeamID <= 0 {
		return 0, fmt.Errorf("%w: team is required", errBadRequest)
	}
	return payload.TeamID, nil
}
