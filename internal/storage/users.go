package storage

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/pkg/xtime"
)

const userTable = "users"

var userColumns = []string{"id", "username", "email", "password", "is_staff", "roles", "scopes"}

// CreateUser inserts a new account and returns its id.
func (c *Client) CreateUser(ctx context.Context, user *objects.User) (int, error) {
	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return 0, fmt.Errorf("storage: encode roles: %w", err)
	}

	granted, err := json.Marshal(user.Scopes)
	if err != nil {
		return 0, fmt.Errorf("storage: encode scopes: %w", err)
	}

	return c.insertID(ctx, c.builder().
		Insert(userTable).
		Columns("username", "email", "password", "is_staff", "roles", "scopes", "created_at").
		Values(user.Username, user.Email, user.Password, user.IsStaff, string(roles), string(granted), xtime.Now()))
}

// UserByID fetches one account.
func (c *Client) UserByID(ctx context.Context, id int) (*objects.User, error) {
	return c.oneUser(ctx, entsql.EQ("id", id), &NotFoundError{Entity: "user", ID: id})
}

// UserByUsername fetches one account by its unique username.
func (c *Client) UserByUsername(ctx context.Context, username string) (*objects.User, error) {
	return c.oneUser(ctx, entsql.EQ("username", username), &NotFoundError{Entity: "user"})
}

// UsernameTaken reports whether the username is already registered.
func (c *Client) UsernameTaken(ctx context.Context, username string) (bool, error) {
	query, args := c.builder().
		Select("id").
		From(entsql.Table(userTable)).
		Where(entsql.EQ("username", username)).
		Limit(1).
		Query()

	found := false

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		found = true

		var id int

		return rows.Scan(&id)
	})

	return found, err
}

func (c *Client) oneUser(ctx context.Context, pred *entsql.Predicate, notFound *NotFoundError) (*objects.User, error) {
	query, args := c.builder().
		Select(userColumns...).
		From(entsql.Table(userTable)).
		Where(pred).
		Query()

	var user *objects.User

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		u, err := scanUser(rows)
		if err != nil {
			return err
		}

		user = u

		return nil
	})
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, notFound
	}

	return user, nil
}

func scanUser(rows *entsql.Rows) (*objects.User, error) {
	var (
		user           objects.User
		roles, granted string
	)

	if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.IsStaff, &roles, &granted); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(roles), &user.Roles); err != nil {
		return nil, fmt.Errorf("storage: decode roles: %w", err)
	}

	if err := json.Unmarshal([]byte(granted), &user.Scopes); err != nil {
		return nil, fmt.Errorf("storage: decode scopes: %w", err)
	}

	return &user, nil
}
