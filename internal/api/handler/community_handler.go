package handler

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/core/ports"
)

type CommunityHandler struct {
	community ports.CommunityService
}

func NewCommunityHandler(community ports.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

type postCommentRequest struct {
	// User is the display name. Omitted means the session's username; an
	// explicit blank posts anonymously.
	User *string `json:"user" validate:"omitempty,max=64"`
	Text string  `json:"text" validate:"notblank,max=5000"`
}

// Overview lists every topic with its latest message preview.
//
// @Summary   Topic overview
// @Tags      community
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}   domain.TopicPreview
// @Failure   401  {object}  map[string]string
// @Router    /v1/community [get]
func (h *CommunityHandler) Overview(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	overview, err := h.community.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overview)
}

// List returns the open topic's comments, most recent first. Only the
// topic the session has open can be listed.
//
// @Summary   Topic comments
// @Tags      community
// @Produce   json
// @Security  BearerAuth
// @Param     topic  path      string  true  "Topic name (URL-escaped)"
// @Success   200    {array}   domain.Comment
// @Failure   404    {object}  map[string]string
// @Failure   409    {object}  map[string]string
// @Router    /v1/community/topics/{topic} [get]
func (h *CommunityHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	raw, err := url.PathUnescape(c.Param("topic"))
	if err != nil {
		return domain.ErrUnknownTopic
	}
	topic := domain.Topic(raw)
	if !topic.IsKnown() {
		return domain.ErrUnknownTopic
	}
	if sess.View.State() != domain.StateCommunityTopic || sess.View.Topic != topic {
		return domain.ErrInvalidTransition
	}
	comments, err := h.community.List(c.Request().Context(), topic)
	if err != nil {
		return err
	}
	slices.Reverse(comments)
	return c.JSON(http.StatusOK, comments)
}

// Post adds a comment to the topic the session has open.
//
// @Summary   Post comment
// @Tags      community
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      postCommentRequest  true  "Comment"
// @Success   201   {object}  domain.Comment
// @Failure   409   {object}  map[string]string
// @Failure   422   {object}  map[string]string
// @Router    /v1/community/comments [post]
func (h *CommunityHandler) Post(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req postCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	author := sess.Username
	if req.User != nil {
		author = *req.User
	}
	comment, err := h.community.Post(c.Request().Context(), sess.View.Topic, author, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}
