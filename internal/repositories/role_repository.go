package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"chat-core/internal/models"
)

// RoleRepository abstracts roles, their permission sets and their assignment to members.
type RoleRepository interface {
	CreateRole(ctx context.Context, role models.Role) error
	GetRole(ctx context.Context, roleID uuid.UUID) (models.Role, error)
	GetRolesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Role, error)
	ListRoles(ctx context.Context, serverID uuid.UUID) ([]models.Role, error)
	RenameRole(ctx context.Context, roleID uuid.UUID, name string) error
	SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []models.Permission) error
	DeleteRole(ctx context.Context, roleID uuid.UUID) error
	AssignRole(ctx context.Context, memberID uuid.UUID, roleID uuid.UUID) error
	UnassignRole(ctx context.Context, memberID uuid.UUID, roleID uuid.UUID) error
}

// RoleRepo is a sqlx implementation of RoleRepository.
type RoleRepo struct {
	db *sqlx.DB
}

// NewRoleRepo constructs a RoleRepo.
func NewRoleRepo(db *sqlx.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

const roleColumns = `id, server_id, name, created_at`

type rolePermissionRow struct {
	RoleID     uuid.UUID `db:"role_id"`
	Permission string    `db:"permission"`
}

// CreateRole stores the role together with its permission set.
func (r *RoleRepo) CreateRole(ctx context.Context, role models.Role) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO roles (id, server_id, name, created_at) VALUES (?, ?, ?, ?)`),
			role.ID, role.ServerID, role.Name, role.CreatedAt); err != nil {
			return err
		}
		return insertPermissions(ctx, tx, role.ID, role.Permissions)
	})
}

func (r *RoleRepo) GetRole(ctx context.Context, roleID uuid.UUID) (models.Role, error) {
	roles, err := r.GetRolesByIDs(ctx, []uuid.UUID{roleID})
	if err != nil {
		return models.Role{}, err
	}
	if len(roles) == 0 {
		return models.Role{}, ErrRoleNotFound
	}
	return roles[0], nil
}

// GetRolesByIDs returns existing roles among ids with their permission sets.
func (r *RoleRepo) GetRolesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Role, error) {
	if len(ids) == 0 {
		return []models.Role{}, nil
	}
	var roles []models.Role
	if err := selectIn(ctx, r.db, &roles, `SELECT `+roleColumns+` FROM roles WHERE id IN (?) ORDER BY created_at, id`, ids); err != nil {
		return nil, err
	}
	return r.withPermissions(ctx, roles)
}

func (r *RoleRepo) ListRoles(ctx context.Context, serverID uuid.UUID) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, r.db.Rebind(`SELECT `+roleColumns+` FROM roles WHERE server_id=? ORDER BY created_at, id`), serverID); err != nil {
		return nil, err
	}
	return r.withPermissions(ctx, roles)
}

func (r *RoleRepo) RenameRole(ctx context.Context, roleID uuid.UUID, name string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE roles SET name=? WHERE id=?`), name, roleID)
	if err != nil {
		return err
	}
	return expectAffected(res, ErrRoleNotFound)
}

// SetRolePermissions replaces the permission set of a role.
func (r *RoleRepo) SetRolePermissions(ctx context.Context, roleID uuid.UUID, permissions []models.Permission) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM role_permissions WHERE role_id=?`), roleID); err != nil {
			return err
		}
		return insertPermissions(ctx, tx, roleID, permissions)
	})
}

// DeleteRole removes the role, its permissions and every assignment of it.
func (r *RoleRepo) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM member_roles WHERE role_id=?`,
			`DELETE FROM role_permissions WHERE role_id=?`,
		} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), roleID); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM roles WHERE id=?`), roleID)
		if err != nil {
			return err
		}
		return expectAffected(res, ErrRoleNotFound)
	})
}

// AssignRole adds roleID to the member's role set. Assigning twice is a no-op.
func (r *RoleRepo) AssignRole(ctx context.Context, memberID uuid.UUID, roleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`INSERT INTO member_roles (member_id, role_id) VALUES (?, ?)`), memberID, roleID)
	if isUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *RoleRepo) UnassignRole(ctx context.Context, memberID uuid.UUID, roleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM member_roles WHERE member_id=? AND role_id=?`), memberID, roleID)
	return err
}

func (r *RoleRepo) withPermissions(ctx context.Context, roles []models.Role) ([]models.Role, error) {
	if len(roles) == 0 {
		return []models.Role{}, nil
	}
	var rows []rolePermissionRow
	ids := lo.Map(roles, func(role models.Role, _ int) uuid.UUID { return role.ID })
	if err := selectIn(ctx, r.db, &rows, `SELECT role_id, permission FROM role_permissions WHERE role_id IN (?)`, ids); err != nil {
		return nil, err
	}

	byRole := map[uuid.UUID][]models.Permission{}
	for _, row := range rows {
		p, err := models.ParsePermission(row.Permission)
		if err != nil {
			return nil, fmt.Errorf("role %s: %w", row.RoleID, err)
		}
		byRole[row.RoleID] = append(byRole[row.RoleID], p)
	}
	for i := range roles {
		perms := byRole[roles[i].ID]
		// rows come back in storage order; keep the enumeration order instead
		roles[i].Permissions = lo.Filter(models.AllPermissions(), func(p models.Permission, _ int) bool {
			return lo.Contains(perms, p)
		})
	}
	return roles, nil
}

func insertPermissions(ctx context.Context, tx *sqlx.Tx, roleID uuid.UUID, permissions []models.Permission) error {
	for _, p := range lo.Uniq(permissions) {
		if !p.Valid() {
			return fmt.Errorf("unknown permission %d", uint8(p))
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO role_permissions (role_id, permission) VALUES (?, ?)`), roleID, p.String()); err != nil {
			return err
		}
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
