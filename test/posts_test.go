package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/blogbox/internal/pagination"
	"github.com/2beens/blogbox/internal/posts"
	"github.com/2beens/blogbox/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *IntegrationTestSuite) createPost(ctx context.Context, blogID, title string) posts.View {
	body := fmt.Sprintf(
		`{"title":%q,"shortDescription":"a short description","content":"some content body","blogId":%q}`,
		title, blogID,
	)
	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "POST", "/posts", body, true))
	s.Require().Equal(http.StatusCreated, status)

	var created posts.View
	s.Require().NoError(json.Unmarshal(respBytes, &created))
	return created
}

func (s *IntegrationTestSuite) TestPosts_createCopiesBlogName() {
	ctx := context.Background()

	blog := s.createBlog(ctx, "technotes")
	post := s.createPost(ctx, blog.ID, "First Post")

	s.Equal(blog.ID, post.BlogID)
	s.Equal("technotes", post.BlogName)
}

func (s *IntegrationTestSuite) TestPosts_blogNameStaysAfterRename() {
	ctx := context.Background()

	blog := s.createBlog(ctx, "oldblogname")
	post := s.createPost(ctx, blog.ID, "First Post")
	s.Equal("oldblogname", post.BlogName)

	renameBody := `{"name":"newblogname","description":"a blog about oldblogname","websiteUrl":"https://example.com/oldblogname"}`
	status, _ := doRequest(s.T(), newRequest(ctx, s.T(), "PUT", "/blogs/"+blog.ID, renameBody, true))
	s.Require().Equal(http.StatusNoContent, status)

	// the post keeps the name copied at write time
	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/posts/"+post.ID, "", false))
	s.Require().Equal(http.StatusOK, status)
	var fetched posts.View
	s.Require().NoError(json.Unmarshal(respBytes, &fetched))
	s.Equal("oldblogname", fetched.BlogName)

	// an update of the post picks up the new blog name
	updateBody := fmt.Sprintf(
		`{"title":"First Post","shortDescription":"a short description","content":"some content body","blogId":%q}`,
		blog.ID,
	)
	status, _ = doRequest(s.T(), newRequest(ctx, s.T(), "PUT", "/posts/"+post.ID, updateBody, true))
	s.Require().Equal(http.StatusNoContent, status)

	status, respBytes = doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/posts/"+post.ID, "", false))
	s.Require().Equal(http.StatusOK, status)
	s.Require().NoError(json.Unmarshal(respBytes, &fetched))
	s.Equal("newblogname", fetched.BlogName)
}

func (s *IntegrationTestSuite) TestPosts_unknownBlog() {
	ctx := context.Background()

	unknownBlogID := primitive.NewObjectID().Hex()
	body := fmt.Sprintf(
		`{"title":"Valid Title","shortDescription":"a short description","content":"some content body","blogId":%q}`,
		unknownBlogID,
	)

	// flat route: field error
	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "POST", "/posts", body, true))
	s.Require().Equal(http.StatusBadRequest, status)
	var resp validation.ErrorsResponse
	s.Require().NoError(json.Unmarshal(respBytes, &resp))
	s.Require().Len(resp.ErrorsMessages, 1)
	s.Equal("blogId", resp.ErrorsMessages[0].Field)

	// nested route: missing page
	nestedBody := `{"title":"Valid Title","shortDescription":"a short description","content":"some content body"}`
	status, _ = doRequest(s.T(), newRequest(
		ctx, s.T(), "POST", "/blogs/"+unknownBlogID+"/posts", nestedBody, true))
	s.Equal(http.StatusNotFound, status)

	status, _ = doRequest(s.T(), newRequest(
		ctx, s.T(), "GET", "/blogs/"+unknownBlogID+"/posts", "", false))
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestPosts_listForBlog() {
	ctx := context.Background()

	blog1 := s.createBlog(ctx, "blogone")
	blog2 := s.createBlog(ctx, "blogtwo")

	for i := 0; i < 3; i++ {
		s.createPost(ctx, blog1.ID, fmt.Sprintf("Post %d", i))
	}
	s.createPost(ctx, blog2.ID, "Other Post")

	status, respBytes := doRequest(s.T(), newRequest(
		ctx, s.T(), "GET", "/blogs/"+blog1.ID+"/posts", "", false))
	s.Require().Equal(http.StatusOK, status)

	var page pagination.Paginated[posts.View]
	s.Require().NoError(json.Unmarshal(respBytes, &page))
	s.Equal(3, page.TotalCount)
	s.Require().Len(page.Items, 3)
	for _, item := range page.Items {
		s.Equal(blog1.ID, item.BlogID)
	}

	// nested create uses the blog id from the path
	nestedBody := `{"title":"Nested Post","shortDescription":"a short description","content":"some content body"}`
	status, respBytes = doRequest(s.T(), newRequest(
		ctx, s.T(), "POST", "/blogs/"+blog2.ID+"/posts", nestedBody, true))
	s.Require().Equal(http.StatusCreated, status)
	var nested posts.View
	s.Require().NoError(json.Unmarshal(respBytes, &nested))
	s.Equal(blog2.ID, nested.BlogID)
	s.Equal("blogtwo", nested.BlogName)
}

func (s *IntegrationTestSuite) TestPosts_deleteBlogKeepsPosts() {
	ctx := context.Background()

	blog := s.createBlog(ctx, "shortlived")
	post := s.createPost(ctx, blog.ID, "Orphan Post")

	status, _ := doRequest(s.T(), newRequest(ctx, s.T(), "DELETE", "/blogs/"+blog.ID, "", true))
	s.Require().Equal(http.StatusNoContent, status)

	// no cascading delete, the post still resolves on its own
	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/posts/"+post.ID, "", false))
	s.Require().Equal(http.StatusOK, status)
	var fetched posts.View
	s.Require().NoError(json.Unmarshal(respBytes, &fetched))
	s.Equal("shortlived", fetched.BlogName)
}

func (s *IntegrationTestSuite) TestPosts_wipeAllData() {
	ctx := context.Background()

	blog := s.createBlog(ctx, "technotes")
	s.createPost(ctx, blog.ID, "First Post")

	// the wipe endpoint needs no credentials
	status, _ := doRequest(s.T(), newRequest(ctx, s.T(), "DELETE", "/testing/all-data", "", false))
	s.Require().Equal(http.StatusNoContent, status)

	status, respBytes := doRequest(s.T(), newRequest(ctx, s.T(), "GET", "/posts", "", false))
	s.Require().Equal(http.StatusOK, status)
	var page pagination.Paginated[posts.View]
	s.Require().NoError(json.Unmarshal(respBytes, &page))
	s.Equal(0, page.TotalCount)
	s.Empty(page.Items)
}
