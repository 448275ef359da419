// Package entity 实体标识比较与选项集合合并
package entity

// Identifiable 有可选主键的实体；未持久化时 GetID 返回 nil
type Identifiable interface {
	GetID() *int64
}

// Ref 约束为实体指针，便于判断 nil
type Ref[E any] interface {
	*E
	Identifiable
}

// Identifier 返回实体 id，未持久化返回 nil
func Identifier(e Identifiable) *int64 {
	if e == nil {
		return nil
	}
	return e.GetID()
}

// Compare 两者都为 nil 时相等；只有一个为 nil 时不等；否则比较 id
func Compare[E any, P Ref[E]](a, b P) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameID(a.GetID(), b.GetID())
}

// AddToCollectionIfMissing 把集合中没有的候选按出现顺序放到集合前面。
// nil 候选忽略，候选之间同样按 id 去重；没有可加的候选时原样返回 coll。
func AddToCollectionIfMissing[E any, P Ref[E]](coll []P, candidates ...P) []P {
	ids := make([]*int64, 0, len(coll)+len(candidates))
	for _, e := range coll {
		ids = append(ids, e.GetID())
	}

	var toAdd []P
	for _, c := range candidates {
		if c == nil {
			continue
		}
		id := c.GetID()
		if containsID(ids, id) {
			continue
		}
		ids = append(ids, id)
		toAdd = append(toAdd, c)
	}
	if len(toAdd) == 0 {
		return coll
	}
	return append(toAdd, coll...)
}

func containsID(ids []*int64, id *int64) bool {
	for _, x := range ids {
		if sameID(x, id) {
			return true
		}
	}
	return false
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
