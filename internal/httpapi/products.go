package httpapi

import (
	"net/http"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/store"
)

// productFilter narrows the product list.
type productFilter struct {
	Category *int64 `schema:"category"`
	Status   *int64 `schema:"status"`
	InStock  bool   `schema:"in_stock"`
}

func (f productFilter) criteria() store.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if f.Category != nil {
			q = q.Where("?TableAlias.category_id = ?", *f.Category)
		}
		if f.Status != nil {
			q = q.Where("?TableAlias.status_id = ?", *f.Status)
		}
		if f.InStock {
			q = q.Where("?TableAlias.stock > 0")
		}
		return q
	}
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var filter productFilter
	if err := s.query.Decode(&filter, r.URL.Query()); err != nil {
		s.writeError(w, r, queryError(err))
		return
	}

	products, _, err := s.repos.Products.List(r.Context(), filter.criteria())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) productDetail(w http.ResponseWriter, r *http.Request) {
	product, err := s.repos.Products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Product
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	payload.ID = 0
	payload.ImageID = ""
	if err := payload.Normalize(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := payload.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.repos.Products.Create(r.Context(), payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var payload catalog.Product
	if err := decodeJSON(w, r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	var replaced string
	updated, err := s.repos.Products.Update(r.Context(), r.PathValue("id"), func(current catalog.Product) (catalog.Product, error) {
		var next catalog.Product
		next, replaced = payload.ApplyUpdate(current)
		if err := next.Normalize(); err != nil {
			return next, err
		}
		return next, next.Validate()
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.uploader != nil {
		s.uploader.Discard(r.Context(), replaced)
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := s.repos.Products.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.repos.Products.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.uploader != nil {
		s.uploader.Discard(r.Context(), product.ImageID)
	}
	deleted(w)
}

func (s *Server) uploadProductImage(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		s.writeError(w, r, badRequest("image uploads are not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, r, badRequest("invalid multipart upload"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, catalog.FieldError("invalid image", "image", "this field is required"))
		return
	}
	defer file.Close()

	product, err := s.uploader.AttachProductImage(r.Context(), r.PathValue("id"), header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
