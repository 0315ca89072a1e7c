package handler

import (
	"log/slog"
	"net/http"

	"yaapps/dto"
	"yaapps/middleware"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

const (
	tplNotesHome    = "notes/home.html"
	tplNotesList    = "notes/list.html"
	tplNoteDetail   = "notes/detail.html"
	tplNoteForm     = "notes/form.html"
	tplNoteDelete   = "notes/delete.html"
	tplNotesSuccess = "notes/success.html"

	NotesSuccessURL = "/done/"
)

type NoteHandler struct {
	notes *usecase.NotesService
	log   *slog.Logger
}

func NewNoteHandler(notes *usecase.NotesService, log *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, log: log}
}

func (h *NoteHandler) Home(c *gin.Context) {
	Respond(c, Render(http.StatusOK, tplNotesHome, nil))
}

func (h *NoteHandler) Done(c *gin.Context) {
	Respond(c, Render(http.StatusOK, tplNotesSuccess, nil))
}

func (h *NoteHandler) List(c *gin.Context) {
	const op = "handler.NoteHandler.List"

	notes, err := h.notes.List(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Render(http.StatusOK, tplNotesList, gin.H{
		"object_list": dto.ToNoteResponses(notes),
	}))
}

func (h *NoteHandler) Detail(c *gin.Context) {
	const op = "handler.NoteHandler.Detail"

	note, err := h.notes.Get(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("slug"))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Render(http.StatusOK, tplNoteDetail, gin.H{
		"object": dto.ToNoteResponse(note),
	}))
}

func (h *NoteHandler) AddForm(c *gin.Context) {
	Respond(c, Render(http.StatusOK, tplNoteForm, gin.H{
		"form": dto.NewForm(dto.NoteForm{}, nil),
	}))
}

func (h *NoteHandler) Add(c *gin.Context) {
	const op = "handler.NoteHandler.Add"

	var form dto.NoteForm
	if err := c.ShouldBind(&form); err != nil {
		if !h.renderForm(c, form, err) {
			utils.BadRequest(c, "Invalid request body")
		}
		return
	}

	if _, err := h.notes.Create(c.Request.Context(), middleware.CurrentIdentity(c), form); err != nil {
		if !h.renderForm(c, form, err) {
			fail(c, h.log, op, err)
		}
		return
	}
	Respond(c, Redirect(NotesSuccessURL))
}

func (h *NoteHandler) EditForm(c *gin.Context) {
	const op = "handler.NoteHandler.EditForm"

	note, err := h.notes.Get(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("slug"))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Render(http.StatusOK, tplNoteForm, gin.H{
		"form":   dto.NewForm(dto.NoteFormFrom(note), nil),
		"object": dto.ToNoteResponse(note),
	}))
}

func (h *NoteHandler) Edit(c *gin.Context) {
	const op = "handler.NoteHandler.Edit"
	ctx := c.Request.Context()
	id := middleware.CurrentIdentity(c)

	// ownership first: a foreign note is 404 whatever the form holds
	if _, err := h.notes.Get(ctx, id, c.Param("slug")); err != nil {
		fail(c, h.log, op, err)
		return
	}

	var form dto.NoteForm
	if err := c.ShouldBind(&form); err != nil {
		if !h.renderForm(c, form, err) {
			utils.BadRequest(c, "Invalid request body")
		}
		return
	}

	if _, err := h.notes.Update(ctx, id, c.Param("slug"), form); err != nil {
		if !h.renderForm(c, form, err) {
			fail(c, h.log, op, err)
		}
		return
	}
	Respond(c, Redirect(NotesSuccessURL))
}

func (h *NoteHandler) DeleteConfirm(c *gin.Context) {
	const op = "handler.NoteHandler.DeleteConfirm"

	note, err := h.notes.Get(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("slug"))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Render(http.StatusOK, tplNoteDelete, gin.H{
		"object": dto.ToNoteResponse(note),
	}))
}

func (h *NoteHandler) Delete(c *gin.Context) {
	const op = "handler.NoteHandler.Delete"

	if err := h.notes.Delete(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("slug")); err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Redirect(NotesSuccessURL))
}

// renderForm re-renders the form when err carries field errors.
func (h *NoteHandler) renderForm(c *gin.Context, form dto.NoteForm, err error) bool {
	fields, ok := formErrors(err)
	if !ok {
		return false
	}
	Respond(c, Render(http.StatusOK, tplNoteForm, gin.H{
		"form": dto.NewForm(form, fields),
	}))
	return true
}
