package app

import (
	"context"
	"reflect"
	"testing"

	"miniblog/internal/model"
)

func postIDs(posts []model.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	return ids
}

func TestCreatePostFiltersUnknownCategories(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	golang := env.category(t, "Go")

	post := env.post(t, alice.ID, "hello", golang.ID, 9999, golang.ID)
	if len(post.Categories) != 1 || post.Categories[0].ID != golang.ID {
		t.Fatalf("expected only Go on the created post, got %+v", post.Categories)
	}

	stored, err := env.content.GetPost(post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if len(stored.Categories) != 1 || stored.Categories[0].ID != golang.ID {
		t.Fatalf("expected only Go persisted, got %+v", stored.Categories)
	}
	if stored.AuthorID != alice.ID || !stored.IsActive {
		t.Fatalf("unexpected stored post %+v", stored)
	}
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	ctx := context.Background()

	_, err := env.content.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b"})
	expectErr(t, err, ErrUnauthorized)

	_, err = env.content.CreatePost(ctx, CreatePostInput{AuthorID: alice.ID, Title: " ", Body: "b"})
	expectErr(t, err, ErrInvalidInput)

	long := make([]byte, maxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = env.content.CreatePost(ctx, CreatePostInput{AuthorID: alice.ID, Title: string(long), Body: "b"})
	expectErr(t, err, ErrInvalidInput)
}

func TestListActivePostsNewestFirstAndStable(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	first := env.post(t, alice.ID, "first")
	second := env.post(t, alice.ID, "second")
	third := env.post(t, alice.ID, "third")

	posts, err := env.content.ListActivePosts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []uint{third.ID, second.ID, first.ID}
	if got := postIDs(posts); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := 1; i < len(posts); i++ {
		if !posts[i-1].CreatedAt.After(posts[i].CreatedAt) {
			t.Fatalf("expected strictly descending creation times, got %v then %v", posts[i-1].CreatedAt, posts[i].CreatedAt)
		}
	}

	again, err := env.content.ListActivePosts()
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if !reflect.DeepEqual(postIDs(again), postIDs(posts)) {
		t.Fatalf("expected identical listings, got %v then %v", postIDs(posts), postIDs(again))
	}
}

func TestSoftDeleteHidesFromListingOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	kept := env.post(t, alice.ID, "kept")
	gone := env.post(t, alice.ID, "gone")

	if err := env.content.SoftDeletePost(context.Background(), gone.ID, alice.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	posts, err := env.content.ListActivePosts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := postIDs(posts); !reflect.DeepEqual(got, []uint{kept.ID}) {
		t.Fatalf("expected only kept post, got %v", got)
	}

	direct, err := env.content.GetPost(gone.ID)
	if err != nil {
		t.Fatalf("expected direct lookup to work, got %v", err)
	}
	if direct.IsActive {
		t.Fatalf("expected post to be inactive")
	}

	// Deleting again is a no-op for the owner.
	if err := env.content.SoftDeletePost(context.Background(), gone.ID, alice.ID); err != nil {
		t.Fatalf("second soft delete: %v", err)
	}
}

func TestSoftDeleteAuthorization(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	post := env.post(t, alice.ID, "mine")
	ctx := context.Background()

	expectErr(t, env.content.SoftDeletePost(ctx, post.ID, bob.ID), ErrForbidden)
	expectErr(t, env.content.SoftDeletePost(ctx, post.ID+50, alice.ID), ErrNotFound)
	expectErr(t, env.content.SoftDeletePost(ctx, post.ID, 0), ErrUnauthorized)

	stored, _ := env.content.GetPost(post.ID)
	if !stored.IsActive {
		t.Fatalf("expected post to stay active")
	}
}

func TestEditPostReplacesEverything(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	golang := env.category(t, "Go")
	sql := env.category(t, "SQL")
	post := env.post(t, alice.ID, "draft", golang.ID)

	updated, err := env.content.EditPost(context.Background(), EditPostInput{
		PostID:      post.ID,
		ActorID:     alice.ID,
		Title:       "final",
		Body:        "new body",
		CategoryIDs: []uint{sql.ID, 4242},
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Title != "final" || updated.Body != "new body" {
		t.Fatalf("unexpected updated post %+v", updated)
	}

	stored, err := env.content.GetPost(post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != "final" || stored.Body != "new body" {
		t.Fatalf("expected persisted edit, got %+v", stored)
	}
	if len(stored.Categories) != 1 || stored.Categories[0].ID != sql.ID {
		t.Fatalf("expected category set replaced by SQL, got %+v", stored.Categories)
	}
	if stored.AuthorID != alice.ID {
		t.Fatalf("author must not change, got %d", stored.AuthorID)
	}
}

func TestEditPostByNonAuthorLeavesPostUnchanged(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	golang := env.category(t, "Go")
	post := env.post(t, alice.ID, "original", golang.ID)

	_, err := env.content.EditPost(context.Background(), EditPostInput{
		PostID:  post.ID,
		ActorID: bob.ID,
		Title:   "hijacked",
		Body:    "hijacked",
	})
	expectErr(t, err, ErrForbidden)

	stored, err := env.content.GetPost(post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != "original" || stored.Body != "body of original" {
		t.Fatalf("expected unchanged post, got %+v", stored)
	}
	if len(stored.Categories) != 1 || stored.Categories[0].ID != golang.ID {
		t.Fatalf("expected categories unchanged, got %+v", stored.Categories)
	}

	_, err = env.content.EditPost(context.Background(), EditPostInput{PostID: post.ID + 10, ActorID: alice.ID, Title: "t", Body: "b"})
	expectErr(t, err, ErrNotFound)
}

func TestEditPostChecksOwnershipBeforeInput(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	post := env.post(t, alice.ID, "original")
	ctx := context.Background()

	tests := []struct {
		name  string
		input EditPostInput
		want  error
	}{
		{name: "non-author with empty title", input: EditPostInput{PostID: post.ID, ActorID: bob.ID, Title: "", Body: "x"}, want: ErrForbidden},
		{name: "unknown post with empty title", input: EditPostInput{PostID: post.ID + 10, ActorID: alice.ID, Title: "", Body: ""}, want: ErrNotFound},
		{name: "author with empty title", input: EditPostInput{PostID: post.ID, ActorID: alice.ID, Title: " ", Body: "x"}, want: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.content.EditPost(ctx, tt.input)
			expectErr(t, err, tt.want)
		})
	}

	stored, err := env.content.GetPost(post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != "original" {
		t.Fatalf("expected title unchanged after rejected edits, got %q", stored.Title)
	}
}

func TestCommentsOnSoftDeletedPost(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	post := env.post(t, alice.ID, "post")
	ctx := context.Background()

	if err := env.content.SoftDeletePost(ctx, post.ID, alice.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	comment, err := env.content.AddComment(ctx, AddCommentInput{PostID: post.ID, AuthorID: bob.ID, Body: "still here?"})
	if err != nil {
		t.Fatalf("comment on soft-deleted post: %v", err)
	}
	if comment.PostID != post.ID || comment.AuthorID != bob.ID {
		t.Fatalf("unexpected comment %+v", comment)
	}

	_, err = env.content.AddComment(ctx, AddCommentInput{PostID: post.ID + 99, AuthorID: bob.ID, Body: "x"})
	expectErr(t, err, ErrNotFound)
	_, err = env.content.AddComment(ctx, AddCommentInput{PostID: post.ID, AuthorID: bob.ID, Body: "  "})
	expectErr(t, err, ErrInvalidInput)
	_, err = env.content.AddComment(ctx, AddCommentInput{PostID: post.ID, Body: "anon"})
	expectErr(t, err, ErrUnauthorized)

	comments, err := env.content.ListComments(post.ID)
	if err != nil || len(comments) != 1 {
		t.Fatalf("expected one comment, got %d err=%v", len(comments), err)
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner")
	commenter := env.register(t, "commenter")
	stranger := env.register(t, "stranger")
	post := env.post(t, owner.ID, "post")
	ctx := context.Background()

	addComment := func() *model.Comment {
		t.Helper()
		comment, err := env.content.AddComment(ctx, AddCommentInput{PostID: post.ID, AuthorID: commenter.ID, Body: "hi"})
		if err != nil {
			t.Fatalf("add comment: %v", err)
		}
		return comment
	}

	first := addComment()
	expectErr(t, env.content.DeleteComment(ctx, first.ID, stranger.ID), ErrForbidden)
	if err := env.content.DeleteComment(ctx, first.ID, commenter.ID); err != nil {
		t.Fatalf("comment author delete: %v", err)
	}

	second := addComment()
	if err := env.content.DeleteComment(ctx, second.ID, owner.ID); err != nil {
		t.Fatalf("post author delete: %v", err)
	}

	expectErr(t, env.content.DeleteComment(ctx, second.ID, owner.ID), ErrNotFound)
	expectErr(t, env.content.DeleteComment(ctx, second.ID, 0), ErrUnauthorized)

	comments, err := env.content.ListComments(post.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected hard delete, %d comments left", len(comments))
	}
}

func TestListPostsByAuthor(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	mine := env.post(t, alice.ID, "mine")
	env.post(t, bob.ID, "theirs")

	posts, err := env.content.ListPostsByAuthor(alice.ID)
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if got := postIDs(posts); !reflect.DeepEqual(got, []uint{mine.ID}) {
		t.Fatalf("expected %v, got %v", []uint{mine.ID}, got)
	}
}

func TestContentActivityEvents(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	post := env.post(t, alice.ID, "post")
	ctx := context.Background()

	comment, err := env.content.AddComment(ctx, AddCommentInput{PostID: post.ID, AuthorID: alice.ID, Body: "c"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if err := env.content.DeleteComment(ctx, comment.ID, alice.ID); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	if err := env.content.SoftDeletePost(ctx, post.ID, alice.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	want := []string{
		model.ActivityUserRegistered,
		model.ActivityPostCreated,
		model.ActivityCommentCreated,
		model.ActivityCommentDeleted,
		model.ActivityPostDeleted,
	}
	if got := env.publisher.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	env.publisher.err = context.DeadlineExceeded

	post, err := env.content.CreatePost(context.Background(), CreatePostInput{AuthorID: alice.ID, Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if _, err := env.content.GetPost(post.ID); err != nil {
		t.Fatalf("expected post persisted, got %v", err)
	}
}
