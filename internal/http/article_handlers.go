package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"writers-api/internal/validation"
)

func (h *Handler) submitArticle(c *gin.Context) {
	body, ok := h.bindArticle(c)
	if !ok {
		return
	}

	article, err := h.articles.Submit(c.Request.Context(), currentUser(c), body)
	if err != nil {
		h.internalError(c, err, "submit article")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"article":     articleToResponse(*article),
		"success_msg": "article added successfully",
	})
}

// editArticle and deleteArticle do not check that the article exists or that
// the caller wrote it.
func (h *Handler) editArticle(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}
	body, ok := h.bindArticle(c)
	if !ok {
		return
	}

	if err := h.articles.Edit(c.Request.Context(), id, body); err != nil {
		h.internalError(c, err, "edit article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Article edited successfully"})
}

func (h *Handler) deleteArticle(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}

	if err := h.articles.Delete(c.Request.Context(), id); err != nil {
		h.internalError(c, err, "delete article")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Article deleted successfully"})
}

func (h *Handler) viewArticles(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), c.Query("writers"))
	if err != nil {
		h.internalError(c, err, "list articles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articlesToResponse(articles)})
}

func (h *Handler) allWriters(c *gin.Context) {
	writers, err := h.users.ListWriters(c.Request.Context())
	if err != nil {
		h.internalError(c, err, "list writers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"writers": writersToResponse(writers)})
}

func (h *Handler) bindArticle(c *gin.Context) (string, bool) {
	in, err := readInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody.Error()})
		return "", false
	}
	body, errs := validation.ValidateArticle(in)
	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, errs)
		return "", false
	}
	return body, true
}

func articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return 0, false
	}
	return id, true
}
