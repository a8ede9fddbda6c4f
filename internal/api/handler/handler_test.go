package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/d60-Lab/shelf/internal/api/middleware"
	"github.com/d60-Lab/shelf/internal/model"
	"github.com/d60-Lab/shelf/internal/service"
	"github.com/d60-Lab/shelf/pkg/response"
)

type stubFollow struct {
	service.RelationshipService
	err    error
	target int64
}

func (s *stubFollow) Follow(_ context.Context, _, followedID int64) (*model.UserSummary, error) {
	s.target = followedID
	if s.err != nil {
		return nil, s.err
	}
	return &model.UserSummary{ID: followedID, FollowersCount: 1}, nil
}

type stubRatings struct {
	service.RatingService
	mine *model.Rating
}

func (s *stubRatings) MyRating(context.Context, int64, model.ContentRef) (*model.Rating, error) {
	return s.mine, nil
}

type stubLibrary struct {
	service.LibraryService
	status model.LibraryStatus
}

func (s *stubLibrary) Status(context.Context, int64, model.ContentRef) (model.LibraryStatus, error) {
	return s.status, nil
}

type HandlerTestSuite struct {
	suite.Suite
	follow  *stubFollow
	ratings *stubRatings
	library *stubLibrary
	router  *gin.Engine
}

func (s *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(middleware.RegisterValidators())
}

func (s *HandlerTestSuite) SetupTest() {
	s.follow = &stubFollow{}
	s.ratings = &stubRatings{}
	s.library = &stubLibrary{}
	h := NewHandler(Services{Follow: s.follow, Ratings: s.ratings, Library: s.library})

	r := gin.New()
	// 模拟已登录用户
	r.Use(func(c *gin.Context) { c.Set("user_id", int64(7)) })
	r.POST("/follow/:targetUserId", h.Follow)
	r.POST("/ratings", h.Rate)
	r.GET("/ratings/me", h.MyRating)
	r.GET("/user-content/status", h.LibraryStatus)
	s.router = r
}

func (s *HandlerTestSuite) do(method, path, body string) (*httptest.ResponseRecorder, response.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var resp response.Response
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (s *HandlerTestSuite) TestFollow_InvalidPathID() {
	w, resp := s.do(http.MethodPost, "/follow/abc", "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("invalid targetUserId", resp.Message)
	s.Zero(s.follow.target)
}

func (s *HandlerTestSuite) TestFollow_ErrorKinds() {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{service.ErrAlreadyFollowing, http.StatusConflict, "already following this user"},
		{service.ErrFollowSelf, http.StatusBadRequest, "cannot follow yourself"},
		{service.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		s.follow.err = tc.err
		w, resp := s.do(http.MethodPost, "/follow/5", "")
		s.Equal(tc.status, w.Code)
		s.Equal(tc.status, resp.Code)
		s.Equal(tc.msg, resp.Message)
	}
}

func (s *HandlerTestSuite) TestFollow_OK() {
	w, _ := s.do(http.MethodPost, "/follow/5", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(5), s.follow.target)
	s.Contains(w.Body.String(), `"followersCount":1`)
}

func (s *HandlerTestSuite) TestRate_BindingRejectsUnknownType() {
	w, _ := s.do(http.MethodPost, "/ratings", `{"contentId":"42","type":"tv","score":5}`)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestMyRating_NullWhenUnrated() {
	w, resp := s.do(http.MethodGet, "/ratings/me?contentId=42&type=movie", "")
	s.Equal(http.StatusOK, w.Code)
	s.Nil(resp.Data)

	s.ratings.mine = &model.Rating{ContentID: "42", Type: model.ContentMovie, Score: 9}
	w, _ = s.do(http.MethodGet, "/ratings/me?contentId=42&type=movie", "")
	s.Contains(w.Body.String(), `"score":9`)
}

func (s *HandlerTestSuite) TestLibraryStatus_EmptyIsNull() {
	w, _ := s.do(http.MethodGet, "/user-content/status?contentId=42&type=movie", "")
	s.Contains(w.Body.String(), `"status":null`)

	s.library.status = model.StatusWatched
	w, _ = s.do(http.MethodGet, "/user-content/status?contentId=42&type=movie", "")
	s.Contains(w.Body.String(), `"status":"watched"`)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
