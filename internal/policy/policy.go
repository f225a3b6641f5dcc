// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

// Package policy is the single source of truth for who may do what.
//
// The role -> category and role -> action tables live in the embedded
// policy.csv; every authorization decision in the server goes through the
// typed wrappers here. Unknown roles match no policy rows and are denied
// (fail closed).
package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/statindo/statindo/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Action is an operation on category-scoped resources.
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionVerify Action = "verify"
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// ErrNoVisibleCategories is returned when a requested category filter has
// no overlap with the caller's visible set. Handlers map it to 403, never
// to an empty result.
var ErrNoVisibleCategories = errors.New("requested categories are outside the caller's visible set")

// Policy answers authorization questions from the embedded tables.
// Safe for concurrent use.
type Policy struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds the policy engine from the embedded model and policy.
func New() (*Policy, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	if err := loadEmbeddedPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, fmt.Errorf("failed to load policy rules: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// loadEmbeddedPolicy feeds policy.csv lines into the enforcer.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		ptype, rule := parts[0], parts[1:]
		switch ptype {
		case "p":
			if len(rule) >= 3 {
				if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", rule, err)
				}
			}
		case "g":
			if len(rule) >= 2 {
				if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
				}
			}
		}
	}
	return nil
}

// categoryObject maps a category to its policy object name.
func categoryObject(c models.Category) string {
	return "category:" + c.Slug()
}

// enforce wraps the casbin call; any enforcement error denies.
func (p *Policy) enforce(sub, obj, act string) bool {
	ok, err := p.enforcer.Enforce(sub, obj, act)
	if err != nil {
		return false
	}
	return ok
}

// CanPerform reports whether role may perform action on the category.
func (p *Policy) CanPerform(role models.Role, action Action, category models.Category) bool {
	if !category.IsValid() {
		return false
	}
	return p.enforce(string(role), categoryObject(category), string(action))
}

// CanAccessCategory reports whether role may read the category.
func (p *Policy) CanAccessCategory(role models.Role, category models.Category) bool {
	return p.CanPerform(role, ActionRead, category)
}

// CanPerformAction reports whether role may perform action on at least one
// category. Used to gate endpoints before the row's category is known.
func (p *Policy) CanPerformAction(role models.Role, action Action) bool {
	for _, c := range models.AllCategories {
		if p.CanPerform(role, action, c) {
			return true
		}
	}
	return false
}

// CategoriesVisibleTo returns the categories role may read, in canonical
// order. Viewer and unknown roles get an empty slice.
func (p *Policy) CategoriesVisibleTo(role models.Role) []models.Category {
	visible := make([]models.Category, 0, len(models.AllCategories))
	for _, c := range models.AllCategories {
		if p.CanAccessCategory(role, c) {
			visible = append(visible, c)
		}
	}
	return visible
}

// VisibleIntersection intersects a client's requested category filter with
// the caller's visible set. An empty request means "everything visible". A
// request entirely outside the visible set returns ErrNoVisibleCategories;
// it is never silently narrowed to an empty result.
func (p *Policy) VisibleIntersection(role models.Role, requested []models.Category) ([]models.Category, error) {
	visible := p.CategoriesVisibleTo(role)
	if len(requested) == 0 {
		return visible, nil
	}

	intersection := make([]models.Category, 0, len(requested))
	for _, v := range visible {
		for _, r := range requested {
			if v == r {
				intersection = append(intersection, v)
				break
			}
		}
	}

	if len(intersection) == 0 {
		return nil, ErrNoVisibleCategories
	}
	return intersection, nil
}

// CanManageUsers reports whether role may administer accounts.
func (p *Policy) CanManageUsers(role models.Role) bool {
	return p.enforce(string(role), "system:users", "manage")
}

// CanViewActivity reports whether role may read the activity log.
func (p *Policy) CanViewActivity(role models.Role) bool {
	return p.enforce(string(role), "system:activity", "read")
}

// AccessFor summarizes the caller's rights on one category.
func (p *Policy) AccessFor(role models.Role, category models.Category) models.CategoryAccess {
	return models.CategoryAccess{
		Category:  category,
		Slug:      category.Slug(),
		CanRead:   p.CanPerform(role, ActionRead, category),
		CanUpdate: p.CanPerform(role, ActionUpdate, category),
		CanVerify: p.CanPerform(role, ActionVerify, category),
		CanCreate: p.CanPerform(role, ActionCreate, category),
		CanDelete: p.CanPerform(role, ActionDelete, category),
	}
}
