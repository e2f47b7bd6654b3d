package http

import (
	"net/http"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

// actorHeader names the caller as "tenant:<id>" or "operator:<id>". It is set
// by the gateway in front of this service, which owns authentication.
const actorHeader = "X-Actor"

// requireActor parses the actor header, writing a 401 when it is missing or
// malformed.
func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	raw := r.Header.Get(actorHeader)
	if raw == "" {
		writeError(w, http.StatusUnauthorized, codeActorRequired, "actor header required")
		return domain.Actor{}, false
	}
	actor, err := domain.ParseActor(raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, codeActorRequired, err.Error())
		return domain.Actor{}, false
	}
	return actor, true
}

func requireOperator(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return domain.Actor{}, false
	}
	if !actor.IsOperator() {
		writeError(w, http.StatusForbidden, codeForbidden, domain.ErrOperatorRequired.Error())
		return domain.Actor{}, false
	}
	return actor, true
}

// requireTenantAccess lets operators through and tenants only for their own
// id.
func requireTenantAccess(w http.ResponseWriter, r *http.Request, tenantID int64) (domain.Actor, bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return domain.Actor{}, false
	}
	if !actor.IsOperator() && actor.ID != tenantID {
		writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
		return domain.Actor{}, false
	}
	return actor, true
}
