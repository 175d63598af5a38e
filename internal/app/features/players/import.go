// internal/app/features/players/import.go
package players

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/csvutil"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleImport adds players from a roster CSV. The file is either the
// "file" part of a multipart form or the raw request body sent as text/csv.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "import roster")
	defer cancel()
	teamID := httpjson.IDParam(r, "teamID")
	if err := h.Tracker.CanImportRoster(ctx, actorID, teamID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)
	src, closeFn := rosterSource(r)
	defer closeFn()
	res, err := h.Tracker.ImportRoster(ctx, actorID, teamID, src)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("roster imported",
		zap.String("team_id", teamID.Hex()),
		zap.Int("created", len(res.Created)),
		zap.Int("skipped", len(res.Skipped)))
	httpjson.OK(w, res)
}

// rosterSource finds the uploaded file. Problems with the upload surface
// as errors from the returned reader.
func rosterSource(r *http.Request) (io.Reader, func()) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		file, _, err := r.FormFile("file")
		if err != nil {
			if isTooLarge(err) {
				return failingReader{tooLarge()}, func() {}
			}
			return failingReader{apperr.Validation("file", "CSV file is required")}, func() {}
		}
		return uploadReader{file}, func() { file.Close() }
	case "text/csv", "text/plain":
		return uploadReader{r.Body}, func() {}
	default:
		return failingReader{apperr.Validation("file", "send a multipart form with a file part or a text/csv body")}, func() {}
	}
}

// uploadReader reports an oversized body as a validation error.
type uploadReader struct{ r io.Reader }

func (u uploadReader) Read(p []byte) (int, error) {
	n, err := u.r.Read(p)
	if err != nil && isTooLarge(err) {
		return n, tooLarge()
	}
	return n, err
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func isTooLarge(err error) bool {
	var tooBig *http.MaxBytesError
	return errors.As(err, &tooBig)
}

func tooLarge() error {
	return apperr.Validation("file", fmt.Sprintf("CSV file is too large; the limit is %d KB", csvutil.MaxUploadSize>>10))
}
