package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/anonboard/shared/api"
	"github.com/itchan-dev/anonboard/shared/domain"
	"github.com/itchan-dev/anonboard/shared/errors"
	"github.com/itchan-dev/anonboard/shared/utils"
)

// GetThread returns one thread with all of its replies. The thread is selected by ?thread_id=.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	threadId := r.URL.Query().Get("thread_id")
	if threadId == "" {
		utils.WriteErrorAndStatusCode(w, errors.Validation("thread_id is required"))
		return
	}

	thread, err := h.thread.Get(r.Context(), threadId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.NewThreadView(thread))
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	board := chi.URLParam(r, "board")

	var body api.CreateReplyRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reply, err := h.reply.Create(r.Context(), domain.ReplyCreationData{
		ThreadId: body.ThreadId,
		Text:     body.Text,
		Password: body.DeletePassword,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/b/%s/%s", url.PathEscape(board), url.PathEscape(reply.ThreadId)), http.StatusFound)
}

func (h *Handler) ReportReply(w http.ResponseWriter, r *http.Request) {
	var body api.ReportReplyRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if _, err := h.reply.Report(r.Context(), body.ReplyId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeText(w, "reported")
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteReplyRequest
	if err := utils.DecodeValidate(r, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if _, err := h.reply.Delete(r.Context(), body.ReplyId, body.DeletePassword); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeText(w, "success")
}
