// Package media serves uploaded blobs over HTTP. Resolved blob URLs from the
// document store point here: GET /media/{bucket}/{name} streams the stored
// bytes with a sniffed content type.
package media

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/solace-app/solace/pkg/docstore"
)

// BlobSource reads uploaded blob bytes by handle. *docstore.Client
// satisfies it.
type BlobSource interface {
	BlobBytes(ctx context.Context, handle string) ([]byte, error)
}

// NewRouter builds the media gateway's routes.
func NewRouter(src BlobSource) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/media/{bucket}/{name}", ServeBlob(src)).Methods("GET")
	return router
}

// ServeBlob handles one blob retrieval.
func ServeBlob(src BlobSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		handle := vars["bucket"] + "/" + vars["name"]

		data, err := src.BlobBytes(r.Context(), handle)
		if err != nil {
			if docstore.IsNotFound(err) {
				http.Error(w, "Blob not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to read blob", http.StatusInternalServerError)
			log.Printf("ServeBlob error for %s: %v", handle, err)
			return
		}

		w.Header().Set("Content-Type", http.DetectContentType(data))
		w.Write(data)
	}
}
