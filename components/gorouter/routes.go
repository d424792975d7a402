package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-spotadmin/components/commands"
	"github.com/goliatone/go-spotadmin/components/httpapi"
	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/queries"
	"github.com/goliatone/go-spotadmin/components/wizard"
)

// ActorResolver extracts the acting user id from a router.Context.
type ActorResolver func(router.Context) string

// Config wires go-router with the spot admin executor and notification feed.
type Config[T any] struct {
	Router        router.Router[T]
	API           httpapi.Executor
	Broadcast     *wizard.BroadcastNotifier
	ActorResolver ActorResolver
	BasePath      string
	Routes        RouteConfig
}

// RouteConfig customizes the relative paths used for admin endpoints.
type RouteConfig struct {
	Sessions  string
	Session   string
	Fields    string
	Next      string
	Previous  string
	Jump      string
	Listings  string
	Approve   string
	Reject    string
	Role      string
	EditRole  string
	Toggle    string
	SaveRole  string
	Refunds   string
	WebSocket string
}

// Register mounts the wizard, moderation, role and refund routes plus the
// notification WebSocket on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil && cfg.Broadcast == nil {
		return errors.New("gorouter: api or broadcast is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	actor := cfg.ActorResolver
	if actor == nil {
		actor = defaultActorResolver
	}

	group := cfg.Router.Group(base)
	if cfg.API != nil {
		registerWizard(group, cfg.API, actor, routes)
		registerModeration(group, cfg.API, actor, routes)
		registerRoles(group, cfg.API, actor, routes)
		registerRefunds(group, cfg.API, routes)
	}
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerWizard[T any](r router.Router[T], api httpapi.Executor, actor ActorResolver, routes RouteConfig) {
	r.Post(routes.Sessions, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.StartListingInput
		if err := unmarshalOptional(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if payload.HostID == "" {
			payload.HostID = actor(ctx)
		}
		var sessionID string
		payload.Result = &sessionID
		if err := api.StartListing(ctx.Context(), payload); err != nil {
			return respondDomainError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"session_id": sessionID})
	}))

	r.Get(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		status, err := api.WizardStatus(ctx.Context(), queries.WizardStatusInput{SessionID: ctx.Param("id")})
		if err != nil {
			return respondDomainError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, status)
	}))

	r.Delete(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		if err := api.DiscardListing(ctx.Context(), commands.DiscardListingInput{SessionID: ctx.Param("id")}); err != nil {
			return respondDomainError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "discarded"})
	}))

	r.Post(routes.Fields, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetFieldInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.SessionID = ctx.Param("id")
		if err := api.SetField(ctx.Context(), payload); err != nil {
			return respondDomainError(ctx, err)
		}
		return respondStatus(ctx, api, payload.SessionID)
	}))

	navigate := func(action string) router.HandlerFunc {
		return router.WrapHandler(func(ctx router.Context) error {
			var payload commands.NavigateInput
			if err := unmarshalOptional(ctx.Body(), &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			payload.SessionID = ctx.Param("id")
			payload.Action = action
			if err := api.Navigate(ctx.Context(), payload); err != nil {
				return respondDomainError(ctx, err)
			}
			return respondStatus(ctx, api, payload.SessionID)
		})
	}
	r.Post(routes.Next, navigate(commands.ActionNext))
	r.Post(routes.Previous, navigate(commands.ActionPrevious))
	r.Post(routes.Jump, navigate(commands.ActionJump))
}

func registerModeration[T any](r router.Router[T], api httpapi.Executor, actor ActorResolver, routes RouteConfig) {
	r.Get(routes.Listings, router.WrapHandler(func(ctx router.Context) error {
		filter := listing.ListFilter{
			Status: listing.Status(ctx.Query("status")),
			HostID: ctx.Query("host_id"),
		}
		listings, err := api.Listings(ctx.Context(), filter)
		if err != nil {
			return respondDomainError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, listings)
	}))

	moderate := func(verdict string) router.HandlerFunc {
		return router.WrapHandler(func(ctx router.Context) error {
			var payload commands.ModerateListingInput
			if err := unmarshalOptional(ctx.Body(), &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			payload.ListingID = ctx.Param("id")
			payload.Verdict = verdict
			if payload.ActorID == "" {
				payload.ActorID = actor(ctx)
			}
			if err := api.Moderate(ctx.Context(), payload); err != nil {
				return respondDomainError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]string{"status": verdict + "d"})
		})
	}
	r.Post(routes.Approve, moderate(commands.VerdictApprove))
	r.Post(routes.Reject, moderate(commands.VerdictReject))
}

func registerRoles[T any](r router.Router[T], api httpapi.Executor, actor ActorResolver, routes RouteConfig) {
	r.Get(routes.Role, router.WrapHandler(func(ctx router.Context) error {
		return respondRole(ctx, api, ctx.Param("id"))
	}))

	r.Post(routes.EditRole, router.WrapHandler(func(ctx router.Context) error {
		payload := commands.EditRoleInput{Editing: true}
		if err := unmarshalOptional(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.RoleID = ctx.Param("id")
		if err := api.EditRole(ctx.Context(), payload); err != nil {
			return respondDomainError(ctx, err)
		}
		return respondRole(ctx, api, payload.RoleID)
	}))

	r.Post(routes.Toggle, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.TogglePermissionInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.RoleID = ctx.Param("id")
		if err := api.TogglePermission(ctx.Context(), payload); err != nil {
			return respondDomainError(ctx, err)
		}
		return respondRole(ctx, api, payload.RoleID)
	}))

	r.Post(routes.SaveRole, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SaveRoleInput
		if err := unmarshalOptional(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.RoleID = ctx.Param("id")
		if payload.ActorID == "" {
			payload.ActorID = actor(ctx)
		}
		if err := api.SaveRole(ctx.Context(), payload); err != nil {
			return respondDomainError(ctx, err)
		}
		return respondRole(ctx, api, payload.RoleID)
	}))
}

func registerRefunds[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Refunds, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ProcessRefundInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Refund(ctx.Context(), payload); err != nil {
			return respondDomainError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refunded"})
	}))
}

func registerWebSocket[T any](r router.Router[T], notifier *wizard.BroadcastNotifier, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		err := notifier.Stream(ws.Context(), func(n wizard.Notification) error {
			return ws.WriteJSON(n)
		})
		if err != nil {
			return err
		}
		return ws.Close()
	})
}

// respondStatus answers with the session status. A session closed by the
// last step has no status left, so the response reports submission instead.
func respondStatus(ctx router.Context, api httpapi.Executor, sessionID string) error {
	status, err := api.WizardStatus(ctx.Context(), queries.WizardStatusInput{SessionID: sessionID})
	if errors.Is(err, listing.ErrSessionNotFound) {
		return ctx.JSON(http.StatusOK, map[string]string{"session_id": sessionID, "state": string(wizard.StateSubmitted)})
	}
	if err != nil {
		return respondDomainError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, status)
}

func respondRole(ctx router.Context, api httpapi.Executor, roleID string) error {
	view, err := api.Role(ctx.Context(), queries.RoleInput{RoleID: roleID})
	if err != nil {
		return respondDomainError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

func defaultActorResolver(ctx router.Context) string {
	if v, ok := ctx.Locals("user_id").(string); ok {
		return v
	}
	return ""
}

func unmarshalOptional(body []byte, v any) error {
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

func respondDomainError(ctx router.Context, err error) error {
	return respondError(ctx, httpapi.StatusFor(err), err)
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Sessions == "" {
		routes.Sessions = "/listings/sessions"
	}
	if routes.Session == "" {
		routes.Session = "/listings/sessions/:id"
	}
	if routes.Fields == "" {
		routes.Fields = "/listings/sessions/:id/fields"
	}
	if routes.Next == "" {
		routes.Next = "/listings/sessions/:id/next"
	}
	if routes.Previous == "" {
		routes.Previous = "/listings/sessions/:id/previous"
	}
	if routes.Jump == "" {
		routes.Jump = "/listings/sessions/:id/jump"
	}
	if routes.Listings == "" {
		routes.Listings = "/listings"
	}
	if routes.Approve == "" {
		routes.Approve = "/listings/:id/approve"
	}
	if routes.Reject == "" {
		routes.Reject = "/listings/:id/reject"
	}
	if routes.Role == "" {
		routes.Role = "/roles/:id"
	}
	if routes.EditRole == "" {
		routes.EditRole = "/roles/:id/edit"
	}
	if routes.Toggle == "" {
		routes.Toggle = "/roles/:id/toggle"
	}
	if routes.SaveRole == "" {
		routes.SaveRole = "/roles/:id/save"
	}
	if routes.Refunds == "" {
		routes.Refunds = "/refunds"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/notifications/ws"
	}
	return routes
}
