// SPDX-License-Identifier: MPL-2.0

// Package fixup rewrites parsed pipeline documents into their canonical, flat
// shape.
//
// Source documents nest some fields inside "attributes" (materials, tasks) and
// "authorization" (stage approvals) envelopes. Normalize hoists those members
// onto the parent object and drops the envelope. A hoisted member replaces a
// sibling of the same name.
package fixup

import (
	"github.com/pipeconf/pipeconf/pkg/document"
)

const (
	// GroupKey is the top-level member that records the pipeline group.
	GroupKey = "group"

	attributesKey    = "attributes"
	authorizationKey = "authorization"
	runIfKey         = "run_if"
)

// rewriteFunc may replace a member value before it is hoisted.
type rewriteFunc func(path, key string, v document.Value) (document.Value, error)

// Normalize sets the group member of doc and flattens the attribute envelopes
// of its materials, stage approvals and job tasks. doc is modified in place
// and returned.
//
// Every member the rewrite walks through is required: a missing or mistyped
// materials, stages, approval, authorization, jobs, tasks or attributes member
// yields a *document.ShapeError and leaves doc partially rewritten.
func Normalize(doc document.Value, group string) (document.Value, error) {
	root, err := document.AsObject(doc, "")
	if err != nil {
		return nil, err
	}

	root.Set(GroupKey, document.String(group))

	if err := eachObject(root, "", "materials", func(material *document.Object, path string) error {
		return mergeInto(material, path, attributesKey, nil)
	}); err != nil {
		return nil, err
	}

	if err := eachObject(root, "", "stages", normalizeStage); err != nil {
		return nil, err
	}

	return root, nil
}

func normalizeStage(stage *document.Object, path string) error {
	approval, err := document.ObjectMember(stage, path, "approval")
	if err != nil {
		return err
	}
	if err := mergeInto(approval, document.JoinPath(path, "approval"), authorizationKey, nil); err != nil {
		return err
	}

	return eachObject(stage, path, "jobs", func(job *document.Object, jobPath string) error {
		return eachObject(job, jobPath, "tasks", func(task *document.Object, taskPath string) error {
			return mergeInto(task, taskPath, attributesKey, unwrapRunIf)
		})
	})
}

// unwrapRunIf replaces the run_if condition list with its first entry. Any
// further entries are dropped.
func unwrapRunIf(path, key string, v document.Value) (document.Value, error) {
	if key != runIfKey {
		return v, nil
	}
	memberPath := document.JoinPath(path, key)
	conditions, err := document.AsArray(v, memberPath)
	if err != nil {
		return nil, err
	}
	if conditions.Len() == 0 {
		return nil, &document.ShapeError{Path: document.IndexPath(memberPath, 0), Want: document.KindString}
	}
	return conditions.At(0), nil
}

// mergeInto copies every member of the object stored under wrapperKey onto
// parent, overwriting existing members, then removes wrapperKey from parent.
// rewrite, when non-nil, may replace each value before it is copied.
func mergeInto(parent *document.Object, path, wrapperKey string, rewrite rewriteFunc) error {
	wrapper, err := document.ObjectMember(parent, path, wrapperKey)
	if err != nil {
		return err
	}
	wrapperPath := document.JoinPath(path, wrapperKey)

	for key, v := range wrapper.All() {
		if rewrite != nil {
			if v, err = rewrite(wrapperPath, key, v); err != nil {
				return err
			}
		}
		parent.Set(key, v)
	}
	parent.Delete(wrapperKey)
	return nil
}

// eachObject calls fn for every element of the array stored under key in
// parent. Each element must be an object.
func eachObject(parent *document.Object, path, key string, fn func(*document.Object, string) error) error {
	items, err := document.ArrayMember(parent, path, key)
	if err != nil {
		return err
	}
	itemsPath := document.JoinPath(path, key)
	for i, item := range items.All() {
		itemPath := document.IndexPath(itemsPath, i)
		obj, err := document.AsObject(item, itemPath)
		if err != nil {
			return err
		}
		if err := fn(obj, itemPath); err != nil {
			return err
		}
	}
	return nil
}
