package backend

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zdaf-zdaf/group-platform/internal/domain/model"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (b *Backend) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	b.mu.Lock()
	u, ok := b.users[req.Username]
	b.mu.Unlock()
	if !ok || u.Password != req.Password {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "用户名或密码错误"})
	}
	token, err := b.issueToken(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"access":     token,
		"refresh":    "refresh-" + u.Username,
		"username":   u.Username,
		"role":       u.Role,
		"email":      u.Email,
		"student_id": u.StudentID,
		"faculty":    u.Faculty,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (b *Backend) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	if _, exists := b.User(req.Username); exists {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "用户名已存在"})
	}
	id := b.AddUser(User{Username: req.Username, Password: req.Password, Email: req.Email, Role: req.Role})
	return c.JSON(http.StatusCreated, map[string]any{"id": id, "username": req.Username, "role": req.Role})
}

func (b *Backend) userInfo(c echo.Context) error {
	u := currentUser(c)
	return c.JSON(http.StatusOK, map[string]string{
		"username":   u.Username,
		"role":       u.Role,
		"email":      u.Email,
		"student_id": u.StudentID,
		"faculty":    u.Faculty,
	})
}

type profileRequest struct {
	StudentID *string `json:"student_id"`
	Faculty   *string `json:"faculty"`
}

func (b *Backend) updateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[currentUser(c).Username]
	if req.StudentID != nil && *req.StudentID != "" {
		u.StudentID = *req.StudentID
	}
	if req.Faculty != nil && *req.Faculty != "" {
		u.Faculty = *req.Faculty
	}
	return c.JSON(http.StatusOK, map[string]string{"student_id": u.StudentID, "faculty": u.Faculty})
}

func (b *Backend) listNotices(c echo.Context) error {
	search := c.QueryParam("search")
	typ, _ := strconv.Atoi(c.QueryParam("type"))
	user := currentUser(c)

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Notice{}
	for _, n := range b.notices {
		if search != "" && !strings.Contains(n.Title, search) && !strings.Contains(n.Content, search) {
			continue
		}
		if typ != 0 && n.Type != typ {
			continue
		}
		cp := *n
		cp.IsRead = b.reads[user.Username][n.ID]
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsTop != out[j].IsTop {
			return out[i].IsTop
		}
		return out[i].ID > out[j].ID
	})
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) getNotice(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.notices[id]
	if !ok {
		return notFound()
	}
	return c.JSON(http.StatusOK, n)
}

func (b *Backend) createNotice(c echo.Context) error {
	var in model.NoticeInput
	if err := c.Bind(&in); err != nil || in.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"title": "该字段是必填项。"})
	}
	u := currentUser(c)
	id := b.AddNotice(model.Notice{Title: in.Title, Content: in.Content, Type: in.Type, CreatedBy: u.ID, CreatedByName: u.Username})
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusCreated, b.notices[id])
}

func (b *Backend) updateNotice(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in model.NoticeInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.notices[id]
	if !ok {
		return notFound()
	}
	n.Title, n.Content, n.Type = in.Title, in.Content, in.Type
	return c.JSON(http.StatusOK, n)
}

func (b *Backend) deleteNotice(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.notices[id]; !ok {
		return notFound()
	}
	delete(b.notices, id)
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) unreadCount(c echo.Context) error {
	user := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	if user.Role == "student" {
		for id := range b.notices {
			if !b.reads[user.Username][id] {
				count++
			}
		}
	}
	return c.JSON(http.StatusOK, model.UnreadCount{Count: count})
}

func (b *Backend) markAllRead(c echo.Context) error {
	user := currentUser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	for id := range b.notices {
		b.markReadLocked(user.Username, id)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (b *Backend) markRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user := currentUser(c)
	if user.Role != "student" {
		return c.JSON(http.StatusForbidden, map[string]string{"detail": "只有学生可以标记公告为已读"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.notices[id]; !ok {
		return notFound()
	}
	b.markReadLocked(user.Username, id)
	return c.JSON(http.StatusOK, map[string]string{"status": "marked as read"})
}

func (b *Backend) markReadLocked(username string, id int64) {
	if b.reads[username] == nil {
		b.reads[username] = map[int64]bool{}
	}
	b.reads[username][id] = true
}

func (b *Backend) listMaterials(c echo.Context) error {
	search := c.QueryParam("search")
	typ := c.QueryParam("type")
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []model.Material{}
	for _, m := range b.materials {
		if search != "" && !strings.Contains(m.Title, search) && !strings.Contains(m.Description, search) {
			continue
		}
		if typ != "" && string(m.Type) != typ {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) readUpload(c echo.Context) (name string, data []byte, err error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err = io.ReadAll(f)
	return fh.Filename, data, err
}

func (b *Backend) createMaterial(c echo.Context) error {
	name, data, err := b.readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"file": "没有提交任何文件。"})
	}
	u := currentUser(c)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	m := &model.Material{
		ID:          b.nextID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Type:        model.MaterialType(c.FormValue("type")),
		Size:        int64(len(data)),
		CreatedAt:   time.Now().UTC(),
		File:        "materials/" + name,
		FileURL:     b.srv.URL + "/media/materials/" + name,
		CreatedBy:   u.ID,
		Format:      strings.TrimPrefix(fileExt(name), "."),
	}
	b.materials[m.ID] = m
	b.files[m.ID] = data
	return c.JSON(http.StatusCreated, m)
}

func (b *Backend) updateMaterial(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	name, data, upErr := b.readUpload(c)

	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.materials[id]
	if !ok {
		return notFound()
	}
	m.Title = c.FormValue("title")
	m.Description = c.FormValue("description")
	m.Type = model.MaterialType(c.FormValue("type"))
	if upErr == nil {
		m.File = "materials/" + name
		m.Size = int64(len(data))
		b.files[id] = data
	}
	return c.JSON(http.StatusOK, m)
}

func (b *Backend) deleteMaterial(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.materials[id]; !ok {
		return notFound()
	}
	delete(b.materials, id)
	delete(b.files, id)
	return c.NoContent(http.StatusNoContent)
}

func (b *Backend) downloadMaterial(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	b.mu.Lock()
	m, ok := b.materials[id]
	var data []byte
	var name string
	if ok {
		m.Downloads++
		data = b.files[id]
		name = strings.TrimPrefix(m.File, "materials/")
	}
	b.mu.Unlock()
	if !ok {
		return notFound()
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

func fileExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
