package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type SeedUserRepoMock struct{ mock.Mock }

func (m *SeedUserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in seed tests")
}
func (m *SeedUserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	panic("not used in seed tests")
}
func (m *SeedUserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	panic("not used in seed tests")
}
func (m *SeedUserRepoMock) SetPassword(ctx context.Context, userID int64, passwordHash string) error {
	panic("not used in seed tests")
}
func (m *SeedUserRepoMock) MarkEmailVerified(ctx context.Context, userID int64, at time.Time) error {
	panic("not used in seed tests")
}
func (m *SeedUserRepoMock) UpsertByEmail(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	user.ID = 1
	return args.Error(0)
}

// slug -> id を順に払い出す
type fakeCategories struct {
	repo.CategoryRepository
	ids map[string]int64
}

func (f *fakeCategories) UpsertBySlug(ctx context.Context, c *model.Category) error {
	if id, ok := f.ids[c.Slug]; ok {
		c.ID = id
		return nil
	}
	c.ID = int64(len(f.ids) + 1)
	f.ids[c.Slug] = c.ID
	return nil
}

type fakeProducts struct {
	repo.ProductRepository
	bySlug map[string]model.Product
	err    error
}

func (f *fakeProducts) UpsertBySlug(ctx context.Context, p *model.Product) error {
	if f.err != nil {
		return f.err
	}
	if existing, ok := f.bySlug[p.Slug]; ok {
		*p = existing
		return nil
	}
	f.bySlug[p.Slug] = *p
	return nil
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	users := new(SeedUserRepoMock)
	cats := &fakeCategories{ids: map[string]int64{}}
	prods := &fakeProducts{bySlug: map[string]model.Product{}}

	users.On("UpsertByEmail", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		if u.Email != AdminEmail || u.Role != model.RoleAdmin || u.PasswordHash == nil {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("123456")) == nil
	})).Return(nil).Twice()

	s := NewSeeder(users, cats, prods)
	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Categories)
	assert.Equal(t, 11, res.Products)
	assert.Equal(t, AdminName, res.Admin.Name)

	mouse := prods.bySlug["wireless-mouse"]
	assert.Equal(t, "25.99", mouse.Price.StringFixed(2))
	assert.Equal(t, int64(100), mouse.Stock)
	assert.Len(t, mouse.Images, 2)
	assert.Equal(t, cats.ids["electronics"], mouse.CategoryID)
	assert.Equal(t, cats.ids["home-kitchen"], prods.bySlug["italian-cookbook"].CategoryID)

	// 2回目も同じ件数（重複しない）
	_, err = s.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, cats.ids, 5)
	assert.Len(t, prods.bySlug, 11)

	users.AssertExpectations(t)
}

func TestSeeder_Run_StopsOnError(t *testing.T) {
	ctx := context.Background()
	users := new(SeedUserRepoMock)
	users.On("UpsertByEmail", mock.Anything, mock.Anything).Return(nil).Once()

	s := NewSeeder(users, &fakeCategories{ids: map[string]int64{}}, &fakeProducts{err: errors.New("db down")})
	_, err := s.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wireless-mouse")
}

func TestSeedData_SlugsMatchNames(t *testing.T) {
	// 商品slugの一部は名前から作ったものではない（固定値）
	fixed := map[string]bool{"sapiens": true, "italian-cookbook": true, "mens-t-shirt": true, "womens-jeans": true}
	for _, p := range products {
		if fixed[p.Slug] {
			continue
		}
		assert.Equal(t, model.Slugify(p.Name), p.Slug, p.Name)
	}
	for _, c := range categories {
		assert.Equal(t, model.Slugify(c.Name), c.Slug, c.Name)
	}
}
