package gorouter

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-spotadmin/components/commands"
	"github.com/goliatone/go-spotadmin/components/httpapi"
	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/permissions"
	"github.com/goliatone/go-spotadmin/components/queries"
	"github.com/goliatone/go-spotadmin/components/wizard"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router missing")
	}
	if err := Register(Config[struct{}]{Router: newMockRouter()}); err == nil {
		t.Fatalf("expected error when api and broadcast missing")
	}
}

func TestRegisterMountsRoutes(t *testing.T) {
	mock := newMockRouter()
	cfg := Config[struct{}]{
		Router:    mock,
		API:       &stubExecutor{},
		Broadcast: wizard.NewBroadcastNotifier(),
	}
	if err := Register(cfg); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	for _, key := range []string{
		"POST:/admin/listings/sessions",
		"GET:/admin/listings/sessions/:id",
		"DELETE:/admin/listings/sessions/:id",
		"POST:/admin/listings/sessions/:id/fields",
		"POST:/admin/listings/sessions/:id/next",
		"POST:/admin/listings/sessions/:id/previous",
		"POST:/admin/listings/sessions/:id/jump",
		"GET:/admin/listings",
		"POST:/admin/listings/:id/approve",
		"POST:/admin/listings/:id/reject",
		"GET:/admin/roles/:id",
		"POST:/admin/roles/:id/edit",
		"POST:/admin/roles/:id/toggle",
		"POST:/admin/roles/:id/save",
		"POST:/admin/refunds",
	} {
		if _, ok := mock.routes[key]; !ok {
			t.Fatalf("expected route %s to be registered", key)
		}
	}
	if _, ok := mock.ws["/admin/notifications/ws"]; !ok {
		t.Fatalf("expected websocket route")
	}
}

func TestStartSessionUsesActorAsHost(t *testing.T) {
	mock := newMockRouter()
	api := &stubExecutor{sessionID: "s1"}
	if err := Register(Config[struct{}]{Router: mock, API: api}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx := newMockContext()
	ctx.locals["user_id"] = "host-7"
	if err := mock.routes["POST:/admin/listings/sessions"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", ctx.status)
	}
	if api.start.HostID != "host-7" {
		t.Fatalf("expected host from locals, got %q", api.start.HostID)
	}
	var body map[string]string
	if err := json.Unmarshal(ctx.body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["session_id"] != "s1" {
		t.Fatalf("expected session id in response, got %v", body)
	}
}

func TestNextOnLastStepReportsSubmitted(t *testing.T) {
	mock := newMockRouter()
	api := &stubExecutor{statusErr: listing.ErrSessionNotFound}
	if err := Register(Config[struct{}]{Router: mock, API: api}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx := newMockContext()
	ctx.params["id"] = "s1"
	if err := mock.routes["POST:/admin/listings/sessions/:id/next"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if api.navigate.Action != commands.ActionNext || api.navigate.SessionID != "s1" {
		t.Fatalf("unexpected navigate input %+v", api.navigate)
	}
	var body map[string]string
	_ = json.Unmarshal(ctx.body, &body)
	if ctx.status != http.StatusOK || body["state"] != string(wizard.StateSubmitted) {
		t.Fatalf("expected submitted state, got %d %v", ctx.status, body)
	}
}

func TestModerationErrorsMapToStatus(t *testing.T) {
	mock := newMockRouter()
	api := &stubExecutor{moderateErr: &commands.ModerationError{Kind: listing.KindNotFound, Err: listing.ErrListingNotFound}}
	if err := Register(Config[struct{}]{Router: mock, API: api}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx := newMockContext()
	ctx.params["id"] = "missing"
	ctx.locals["user_id"] = "admin-1"
	ctx.body = []byte(`{"reason":"duplicate"}`)
	if err := mock.routes["POST:/admin/listings/:id/reject"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.status)
	}
	if api.moderate.ActorID != "admin-1" || api.moderate.Reason != "duplicate" || api.moderate.Verdict != commands.VerdictReject {
		t.Fatalf("unexpected moderation input %+v", api.moderate)
	}
}

func TestToggleReturnsRoleView(t *testing.T) {
	mock := newMockRouter()
	api := &stubExecutor{role: queries.RoleView{Role: permissions.Role{ID: "support"}, EditMode: true, Enabled: 1, Total: 4}}
	if err := Register(Config[struct{}]{Router: mock, API: api}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx := newMockContext()
	ctx.params["id"] = "support"
	ctx.body = []byte(`{"category":"users","permission_id":"users.view"}`)
	if err := mock.routes["POST:/admin/roles/:id/toggle"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if api.toggle.RoleID != "support" || api.toggle.PermissionID != "users.view" {
		t.Fatalf("unexpected toggle input %+v", api.toggle)
	}
	var view queries.RoleView
	if err := json.Unmarshal(ctx.body, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if !view.EditMode || view.Total != 4 {
		t.Fatalf("unexpected role view %+v", view)
	}
}

func TestRefundRejectsMalformedBody(t *testing.T) {
	mock := newMockRouter()
	api := &stubExecutor{}
	if err := Register(Config[struct{}]{Router: mock, API: api}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx := newMockContext()
	ctx.body = []byte(`{`)
	if err := mock.routes["POST:/admin/refunds"](ctx); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if ctx.status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.status)
	}
	if api.refunds != 0 {
		t.Fatalf("expected refund not to execute")
	}
}

// --- Test helpers ---

type (
	routerBase  = router.Router[struct{}]
	contextBase = router.Context
)

type mockRouter struct {
	routerBase
	prefix string
	routes map[string]router.HandlerFunc
	ws     map[string]func(router.WebSocketContext) error
}

func newMockRouter() *mockRouter {
	return &mockRouter{
		routes: map[string]router.HandlerFunc{},
		ws:     map[string]func(router.WebSocketContext) error{},
	}
}

func (m *mockRouter) Group(prefix string) router.Router[struct{}] {
	return &mockRouter{
		prefix: m.prefix + prefix,
		routes: m.routes,
		ws:     m.ws,
	}
}

func (m *mockRouter) record(method, path string, handler router.HandlerFunc) {
	m.routes[method+":"+m.prefix+path] = handler
}

func (m *mockRouter) Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.GET), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.POST), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo {
	m.record(string(router.DELETE), path, handler)
	return mockRouteInfo{}
}

func (m *mockRouter) WebSocket(path string, cfg router.WebSocketConfig, handler func(router.WebSocketContext) error) router.RouteInfo {
	m.ws[m.prefix+path] = handler
	return mockRouteInfo{}
}

type mockRouteInfo struct{}

func (mockRouteInfo) SetName(string) router.RouteInfo        { return mockRouteInfo{} }
func (mockRouteInfo) SetDescription(string) router.RouteInfo { return mockRouteInfo{} }
func (mockRouteInfo) SetSummary(string) router.RouteInfo     { return mockRouteInfo{} }
func (mockRouteInfo) AddTags(...string) router.RouteInfo     { return mockRouteInfo{} }
func (mockRouteInfo) AddParameter(string, string, bool, map[string]any) router.RouteInfo {
	return mockRouteInfo{}
}
func (mockRouteInfo) SetRequestBody(string, bool, map[string]any) router.RouteInfo {
	return mockRouteInfo{}
}
func (mockRouteInfo) AddResponse(int, string, map[string]any) router.RouteInfo {
	return mockRouteInfo{}
}

type mockContext struct {
	contextBase
	ctx     context.Context
	headers map[string]string
	body    []byte
	locals  map[any]any
	params  map[string]string
	status  int
}

func newMockContext() *mockContext {
	return &mockContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		locals:  map[any]any{},
		params:  map[string]string{},
	}
}

func (m *mockContext) Context() context.Context {
	return m.ctx
}

func (m *mockContext) SetHeader(k, v string) router.Context {
	m.headers[k] = v
	return m
}

func (m *mockContext) JSON(code int, v any) error {
	m.status = code
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.body = data
	return nil
}

func (m *mockContext) Body() []byte { return m.body }

func (m *mockContext) Param(name string, defaultValue ...string) string {
	if v, ok := m.params[name]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (m *mockContext) Locals(key any, value ...any) any {
	if len(value) == 0 {
		return m.locals[key]
	}
	m.locals[key] = value[0]
	return value[0]
}

type stubExecutor struct {
	sessionID   string
	statusErr   error
	moderateErr error
	role        queries.RoleView

	start    commands.StartListingInput
	navigate commands.NavigateInput
	moderate commands.ModerateListingInput
	toggle   commands.TogglePermissionInput
	refunds  int
}

var _ httpapi.Executor = (*stubExecutor)(nil)

func (s *stubExecutor) StartListing(_ context.Context, in commands.StartListingInput) error {
	s.start = in
	if in.Result != nil {
		*in.Result = s.sessionID
	}
	return nil
}

func (s *stubExecutor) SetField(context.Context, commands.SetFieldInput) error { return nil }

func (s *stubExecutor) Navigate(_ context.Context, in commands.NavigateInput) error {
	s.navigate = in
	return nil
}

func (s *stubExecutor) DiscardListing(context.Context, commands.DiscardListingInput) error {
	return nil
}

func (s *stubExecutor) Moderate(_ context.Context, in commands.ModerateListingInput) error {
	s.moderate = in
	return s.moderateErr
}

func (s *stubExecutor) EditRole(context.Context, commands.EditRoleInput) error { return nil }

func (s *stubExecutor) TogglePermission(_ context.Context, in commands.TogglePermissionInput) error {
	s.toggle = in
	return nil
}

func (s *stubExecutor) SaveRole(context.Context, commands.SaveRoleInput) error { return nil }

func (s *stubExecutor) Refund(context.Context, commands.ProcessRefundInput) error {
	s.refunds++
	return nil
}

func (s *stubExecutor) WizardStatus(context.Context, queries.WizardStatusInput) (queries.WizardStatus, error) {
	return queries.WizardStatus{}, s.statusErr
}

func (s *stubExecutor) Role(context.Context, queries.RoleInput) (queries.RoleView, error) {
	return s.role, nil
}

func (s *stubExecutor) Listings(context.Context, listing.ListFilter) ([]listing.Listing, error) {
	return nil, nil
}
