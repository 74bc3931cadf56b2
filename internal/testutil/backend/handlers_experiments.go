package backend

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

func (b *Backend) listSets(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.QuestionSet{}
	for _, s := range b.sets {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) getSet(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sets[id]
	if !ok {
		return notFound()
	}
	return c.JSON(http.StatusOK, s)
}

func (b *Backend) createSet(c echo.Context) error {
	var in model.QuestionSet
	if err := c.Bind(&in); err != nil || in.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"title": "该字段是必填项。"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	in.ID = b.nextID
	in.Teacher = currentUser(c).ID
	for i := range in.Questions {
		b.nextID++
		in.Questions[i].ID = b.nextID
	}
	b.sets[in.ID] = &in
	return c.JSON(http.StatusCreated, in)
}

func (b *Backend) updateSet(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in model.QuestionSet
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sets[id]
	if !ok {
		return notFound()
	}
	in.ID = id
	in.Teacher = s.Teacher
	b.sets[id] = &in
	return c.JSON(http.StatusOK, in)
}

func (b *Backend) deleteSet(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.sets[id]; !ok {
		return notFound()
	}
	delete(b.sets, id)
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) listSubmissions(c echo.Context) error {
	user := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Submission{}
	for _, s := range b.subs {
		if user.Role == "student" && s.StudentID != user.ID {
			continue
		}
		out = append(out, s)
	}
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) listQuestions(c echo.Context) error {
	user := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.ForumQuestion{}
	for _, q := range b.questions {
		cp := *q
		cp.Liked = b.likes[q.ID][user.Username]
		cp.LikesCount = len(b.likes[q.ID])
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsSticky != out[j].IsSticky {
			return out[i].IsSticky
		}
		return out[i].ID > out[j].ID
	})
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) createQuestion(c echo.Context) error {
	var in model.ForumQuestionInput
	if err := c.Bind(&in); err != nil || in.Title == "" || in.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "标题和内容不能为空"})
	}
	u := currentUser(c)
	now := time.Now().UTC()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	q := &model.ForumQuestion{
		ID:        b.nextID,
		Title:     in.Title,
		Content:   in.Content,
		Author:    model.Author{ID: u.ID, Username: u.Username, Role: u.Role},
		CreatedAt: now,
		UpdatedAt: now,
		Comments:  []model.ForumComment{},
	}
	b.questions[q.ID] = q
	return c.JSON(http.StatusCreated, q)
}

func (b *Backend) deleteQuestion(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.questions[id]
	if !ok {
		return notFound()
	}
	if q.Author.ID != u.ID && u.Role != "teacher" {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "无权删除该问题"})
	}
	delete(b.questions, id)
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) toggleSticky(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.questions[id]
	if !ok {
		return notFound()
	}
	q.IsSticky = !q.IsSticky
	return c.JSON(http.StatusOK, q)
}

func (b *Backend) toggleLike(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.questions[id]
	if !ok {
		return notFound()
	}
	if b.likes[id] == nil {
		b.likes[id] = map[string]bool{}
	}
	if b.likes[id][u.Username] {
		delete(b.likes[id], u.Username)
	} else {
		b.likes[id][u.Username] = true
	}
	cp := *q
	cp.Liked = b.likes[id][u.Username]
	cp.LikesCount = len(b.likes[id])
	return c.JSON(http.StatusOK, cp)
}

func (b *Backend) addComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in model.ForumCommentInput
	if err := c.Bind(&in); err != nil || in.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "评论内容不能为空"})
	}
	u := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.questions[id]
	if !ok {
		return notFound()
	}
	b.nextID++
	cm := model.ForumComment{
		ID:        b.nextID,
		Content:   in.Content,
		Author:    model.Author{ID: u.ID, Username: u.Username, Role: u.Role},
		CreatedAt: time.Now().UTC(),
	}
	q.Comments = append(q.Comments, cm)
	return c.JSON(http.StatusCreated, cm)
}

func (b *Backend) deleteComment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, q := range b.questions {
		for i, cm := range q.Comments {
			if cm.ID != id {
				continue
			}
			if cm.Author.ID != u.ID && u.Role != "teacher" {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "无权删除该评论"})
			}
			q.Comments = append(q.Comments[:i], q.Comments[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return notFound()
}
