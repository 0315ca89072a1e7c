package handler

import (
	"log/slog"
	"net/http"

	"yaapps/dto"
	"yaapps/middleware"
	"yaapps/model"
	"yaapps/usecase"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

const (
	tplNewsHome      = "news/home.html"
	tplNewsDetail    = "news/detail.html"
	tplCommentEdit   = "news/edit.html"
	tplCommentDelete = "news/delete.html"
)

type NewsHandler struct {
	news *usecase.NewsService
	log  *slog.Logger
}

func NewNewsHandler(news *usecase.NewsService, log *slog.Logger) *NewsHandler {
	return &NewsHandler{news: news, log: log}
}

// CommentsURL is where comment changes land: the news page, at the thread.
func CommentsURL(newsID string) string {
	return dto.NewsURL(newsID) + "#comments"
}

func (h *NewsHandler) Home(c *gin.Context) {
	const op = "handler.NewsHandler.Home"

	items, err := h.news.Home(c.Request.Context())
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Render(http.StatusOK, tplNewsHome, gin.H{
		"object_list": dto.ToNewsResponses(items),
	}))
}

func (h *NewsHandler) Detail(c *gin.Context) {
	const op = "handler.NewsHandler.Detail"

	result, err := h.detail(c, nil, nil)
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, result)
}

// AddComment handles POST on the news page. Login is enforced by the router.
func (h *NewsHandler) AddComment(c *gin.Context) {
	const op = "handler.NewsHandler.AddComment"
	newsID := c.Param("id")

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		if !h.renderDetail(c, op, form, err) {
			utils.BadRequest(c, "Invalid request body")
		}
		return
	}

	_, err := h.news.AddComment(c.Request.Context(), middleware.CurrentIdentity(c), newsID, form)
	if err != nil {
		if !h.renderDetail(c, op, form, err) {
			fail(c, h.log, op, err)
		}
		return
	}
	Respond(c, Redirect(CommentsURL(newsID)))
}

// renderDetail shows the news page again with the rejected comment form.
func (h *NewsHandler) renderDetail(c *gin.Context, op string, form dto.CommentForm, err error) bool {
	fields, ok := formErrors(err)
	if !ok {
		return false
	}
	result, err := h.detail(c, &form, fields)
	if err != nil {
		fail(c, h.log, op, err)
		return true
	}
	Respond(c, result)
	return true
}

// detail builds the news page. The comment form is offered to signed-in
// users only.
func (h *NewsHandler) detail(c *gin.Context, form *dto.CommentForm, fields map[string][]string) (Result, error) {
	id := middleware.CurrentIdentity(c)

	news, comments, err := h.news.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		return Result{}, err
	}

	ctx := gin.H{
		"object":   dto.ToNewsResponse(news),
		"comments": dto.ToCommentResponses(comments, id.UserID),
	}
	if id.IsAuthenticated() {
		if form == nil {
			form = &dto.CommentForm{}
		}
		ctx["form"] = dto.NewForm(*form, fields)
	}
	return Render(http.StatusOK, tplNewsDetail, ctx), nil
}

func (h *NewsHandler) EditCommentForm(c *gin.Context) {
	const op = "handler.NewsHandler.EditCommentForm"

	comment, err := h.news.GetComment(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, h.editPage(comment, dto.CommentForm{Text: comment.Text}, nil))
}

func (h *NewsHandler) EditComment(c *gin.Context) {
	const op = "handler.NewsHandler.EditComment"
	ctx := c.Request.Context()
	id := middleware.CurrentIdentity(c)

	comment, err := h.news.GetComment(ctx, id, c.Param("id"))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		fields, ok := formErrors(err)
		if !ok {
			utils.BadRequest(c, "Invalid request body")
			return
		}
		Respond(c, h.editPage(comment, form, fields))
		return
	}

	if _, err := h.news.UpdateComment(ctx, id, comment.ID, form); err != nil {
		fields, ok := formErrors(err)
		if !ok {
			fail(c, h.log, op, err)
			return
		}
		Respond(c, h.editPage(comment, form, fields))
		return
	}
	Respond(c, Redirect(CommentsURL(comment.NewsID)))
}

func (h *NewsHandler) editPage(comment *model.Comment, form dto.CommentForm, fields map[string][]string) Result {
	return Render(http.StatusOK, tplCommentEdit, gin.H{
		"comment": dto.ToCommentResponse(comment, comment.AuthorID),
		"form":    dto.NewForm(form, fields),
	})
}

func (h *NewsHandler) DeleteCommentConfirm(c *gin.Context) {
	const op = "handler.NewsHandler.DeleteCommentConfirm"

	comment, err := h.news.GetComment(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Render(http.StatusOK, tplCommentDelete, gin.H{
		"comment": dto.ToCommentResponse(comment, comment.AuthorID),
	}))
}

func (h *NewsHandler) DeleteComment(c *gin.Context) {
	const op = "handler.NewsHandler.DeleteComment"

	comment, err := h.news.DeleteComment(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		fail(c, h.log, op, err)
		return
	}
	Respond(c, Redirect(CommentsURL(comment.NewsID)))
}
