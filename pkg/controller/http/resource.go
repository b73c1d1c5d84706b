package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/model"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/types"
)

// resource wires one CRM entity to the list/create/read/update/delete routes
type resource[T any, K ~int64] struct {
	name string

	// fresh returns a new entity carrying creation defaults
	fresh    func() *T
	idOf     func(*T) K
	setID    func(*T, K)
	validate func(*T) error
	// references checks foreign keys before the entity is written
	references func(ctx context.Context, v *T) error

	create func(ctx context.Context, v *T) error
	get    func(ctx context.Context, id K) (*T, error)
	list   func(ctx context.Context) ([]*T, error)
	update func(ctx context.Context, v *T) error
	remove func(ctx context.Context, id K) error
}

func (res *resource[T, K]) mount(r chi.Router) {
	r.Get("/", res.handleList)
	r.Post("/", res.handleCreate)
	r.Get("/{id}", res.handleGet)
	r.Put("/{id}", res.handleUpdate)
	r.Delete("/{id}", res.handleDelete)
}

func pathID[K ~int64](r *http.Request, param string) (K, error) {
	id, err := types.ParseID(chi.URLParam(r, param))
	if err != nil {
		return 0, goerr.Wrap(model.ErrNotFound, "invalid ID", goerr.V("cause", err.Error()))
	}
	return K(id), nil
}

func (res *resource[T, K]) check(ctx context.Context, v *T) error {
	if err := res.validate(v); err != nil {
		return err
	}
	if res.references != nil {
		return res.references(ctx, v)
	}
	return nil
}

func (res *resource[T, K]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := res.list(r.Context())
	if err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to list "+res.name))
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (res *resource[T, K]) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := res.fresh()
	if err := decodeJSON(r, v); err != nil {
		writeError(w, r, err)
		return
	}
	// IDs are always assigned by the store
	res.setID(v, 0)

	if err := res.check(ctx, v); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.create(ctx, v); err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to create "+res.name))
		return
	}

	ctxlog.From(ctx).Info("entity created", "kind", res.name, "id", res.idOf(v))
	writeJSON(w, r, http.StatusCreated, v)
}

func (res *resource[T, K]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[K](r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := res.get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// handleUpdate applies the body on top of the stored entity, so absent fields keep their value
func (res *resource[T, K]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID[K](r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	v, err := res.get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := decodeJSON(r, v); err != nil {
		writeError(w, r, err)
		return
	}
	res.setID(v, id)

	if err := res.check(ctx, v); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.update(ctx, v); err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to update "+res.name, goerr.V("id", id)))
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (res *resource[T, K]) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID[K](r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.remove(ctx, id); err != nil {
		writeError(w, r, err)
		return
	}

	ctxlog.From(ctx).Info("entity deleted", "kind", res.name, "id", id)
	writeJSON(w, r, http.StatusOK, messageResponse{Message: res.name + " deleted"})
}

// listBy serves GET /{param} routes filtering by a foreign key
func listBy[T any, K ~int64](name, param string, list func(ctx context.Context, id K) ([]*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID[K](r, param)
		if err != nil {
			writeError(w, r, err)
			return
		}
		items, err := list(r.Context(), id)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "failed to list "+name, goerr.V(param, id)))
			return
		}
		writeJSON(w, r, http.StatusOK, items)
	}
}
