package handlers

import (
	"log/slog"
	"net/http"

	"skajny/internal/render"
)

const messagesPath = "/admin/zpravy"

// MessagesList renders the inbox, newest message first.
func (a *Admin) MessagesList(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	msgs, err := a.messages.List(r.Context())
	if err != nil {
		if canceled(r.Context(), err) {
			return
		}
		slog.Error("list messages failed", "error", err)
		data["LoadError"] = LoadError{Message: "Zprávy se nepodařilo načíst.", RetryURL: messagesPath}
	}
	data["Messages"] = msgs

	a.renderer.Page(w, r, "admin/messages_list", &render.PageData{
		Title:   "Zprávy",
		Section: "messages",
		Data:    data,
		Flashes: noticeFlashes(r),
	})
}

// MessageDetail renders one message in a dialog.
func (a *Admin) MessageDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	msg, err := a.messages.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find message failed", "error", err, "id", id)
		redirect(w, r, withNotice(messagesPath, "error", "load"))
		return
	}
	if msg == nil {
		redirect(w, r, withNotice(messagesPath, "error", "notfound"))
		return
	}

	a.renderer.Page(w, r, "admin/message_detail", &render.PageData{
		Title:   msg.Subject,
		Section: "messages",
		Data:    map[string]any{"Message": msg},
	})
}
