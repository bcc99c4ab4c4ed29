package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/anonboard/shared/api"
	"github.com/itchan-dev/anonboard/shared/domain"
	"github.com/itchan-dev/anonboard/shared/utils"
)

// ListThreads returns the most recently bumped threads of a board, creating the board on first visit.
func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	summaries, err := h.board.ListRecentThreads(r.Context(), board, h.cfg.Public.ThreadsPerPage, h.cfg.Public.NLastMsg)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.NewThreadSummaryViews(summaries))
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	var body api.CreateThreadRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	_, err := h.thread.Create(r.Context(), domain.ThreadCreationData{
		Board:    board,
		Text:     body.Text,
		Password: body.DeletePassword,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	http.Redirect(w, r, "/b/"+url.PathEscape(board), http.StatusFound)
}

func (h *Handler) ReportThread(w http.ResponseWriter, r *http.Request) {
	var body api.ReportThreadRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if _, err := h.thread.Report(r.Context(), body.Id()); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeText(w, "reported")
}

func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteThreadRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.thread.Delete(r.Context(), body.ThreadId, body.DeletePassword); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeText(w, "success")
}
