package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/blogbox/internal/blogs"
	"github.com/2beens/blogbox/internal/pagination"
	"github.com/2beens/blogbox/internal/validation"
)

func (s *IntegrationTestSuite) createBlog(ctx context.Context, name string) blogs.View {
	body := fmt.Sprintf(
		`{"name":%q,"description":"a blog about %s","websiteUrl":"https://example.com/%s"}`,
		name, name, name,
	)
	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "POST", "/blogs", body, true))
	s.Require().Equal(http.StatusCreated, status)

	var created blogs.View
	s.Require().NoError(json.Unmarshal(respBytes, &created))
	return created
}

func (s *IntegrationTestSuite) TestBlogs_createAndGet() {
	ctx := context.Background()

	created := s.createBlog(ctx, "technotes")
	s.NotEmpty(created.ID)
	s.Equal("technotes", created.Name)
	s.False(created.IsMembership)
	s.False(created.CreatedAt.IsZero())

	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/blogs/"+created.ID, "", false))
	s.Require().Equal(http.StatusOK, status)

	var fetched blogs.View
	s.Require().NoError(json.Unmarshal(respBytes, &fetched))
	s.Equal(created.ID, fetched.ID)
	s.Equal(created.Name, fetched.Name)
}

func (s *IntegrationTestSuite) TestBlogs_createUnauthorized() {
	ctx := context.Background()

	body := `{"name":"technotes","description":"a blog","websiteUrl":"https://example.com"}`
	status, _ := doRequest(s.T(), newRequest(ctx, s.T(), "POST", "/blogs", body, false))
	s.Equal(http.StatusUnauthorized, status)

	// wrong password fails the same way
	req := newRequest(ctx, s.T(), "POST", "/blogs", body, false)
	req.Header.Set("Authorization", basicAuthHeader(testUsername, "wrong-password"))
	status, _ = doRequest(s.T(), req)
	s.Equal(http.StatusUnauthorized, status)

	// reads stay open
	status, _ = doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/blogs", "", false))
	s.Equal(http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestBlogs_validationErrors() {
	ctx := context.Background()

	body := `{"name":"","description":"","websiteUrl":"not-a-url"}`
	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "POST", "/blogs", body, true))
	s.Require().Equal(http.StatusBadRequest, status)

	var resp validation.ErrorsResponse
	s.Require().NoError(json.Unmarshal(respBytes, &resp))
	s.Require().Len(resp.ErrorsMessages, 3)
	s.Equal("name", resp.ErrorsMessages[0].Field)
	s.Equal("description", resp.ErrorsMessages[1].Field)
	s.Equal("websiteUrl", resp.ErrorsMessages[2].Field)
}

func (s *IntegrationTestSuite) TestBlogs_listEmpty() {
	ctx := context.Background()

	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/blogs", "", false))
	s.Require().Equal(http.StatusOK, status)

	var page pagination.Paginated[blogs.View]
	s.Require().NoError(json.Unmarshal(respBytes, &page))
	s.Equal(1, page.PagesCount)
	s.Equal(1, page.Page)
	s.Equal(10, page.PageSize)
	s.Equal(0, page.TotalCount)
	s.Empty(page.Items)
}

func (s *IntegrationTestSuite) TestBlogs_listSearchAndPaging() {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.createBlog(ctx, fmt.Sprintf("godigest%d", i))
	}
	s.createBlog(ctx, "cookbook")

	status, respBytes := doRequest(s.T(), newRequest(
		ctx, s.T(), "GET", "/blogs?searchNameTerm=GODIGEST&pageSize=2&pageNumber=2&sortBy=name", "", false))
	s.Require().Equal(http.StatusOK, status)

	var page pagination.Paginated[blogs.View]
	s.Require().NoError(json.Unmarshal(respBytes, &page))
	s.Equal(5, page.TotalCount)
	s.Equal(3, page.PagesCount)
	s.Equal(2, page.Page)
	s.Equal(2, page.PageSize)
	s.Require().Len(page.Items, 2)
	s.Equal("godigest2", page.Items[0].Name)
	s.Equal("godigest3", page.Items[1].Name)
}

func (s *IntegrationTestSuite) TestBlogs_updateAndDelete() {
	ctx := context.Background()

	created := s.createBlog(ctx, "oldname")

	updateBody := `{"name":"newname","description":"updated description","websiteUrl":"https://updated.example.com"}`
	status, _ := doRequest(s.T(), newRequest(ctx, s.T(), "PUT", "/blogs/"+created.ID, updateBody, true))
	s.Require().Equal(http.StatusNoContent, status)

	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/blogs/"+created.ID, "", false))
	s.Require().Equal(http.StatusOK, status)
	var updated blogs.View
	s.Require().NoError(json.Unmarshal(respBytes, &updated))
	s.Equal("newname", updated.Name)
	// mongo stores timestamps with millisecond precision
	s.WithinDuration(created.CreatedAt, updated.CreatedAt, time.Millisecond)

	status, _ = doRequest(s.T(), newRequest(ctx, s.T(), "DELETE", "/blogs/"+created.ID, "", true))
	s.Require().Equal(http.StatusNoContent, status)

	status, _ = doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/blogs/"+created.ID, "", false))
	s.Equal(http.StatusNotFound, status)

	status, _ = doRequest(s.T(), newRequest(ctx, s.T(), "DELETE", "/blogs/"+created.ID, "", true))
	s.Equal(http.StatusNotFound, status)
}
