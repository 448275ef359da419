// Package sample 测试用实体样例：必填、部分、完整、新建（id 为空）四种变体。
// 每次调用返回新值，调用方可随意修改。
package sample

import (
	"time"

	"github.com/d60-Lab/blog-admin/internal/model"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func id(v int64) *int64 { return &v }

func str(s string) *string { return &s }

func PostStatusWithRequiredData() model.PostStatus {
	return model.PostStatus{ID: id(14004), Status: "normal"}
}

func PostStatusWithPartialData() model.PostStatus {
	return model.PostStatus{ID: id(31591), Status: "tomb warp"}
}

func PostStatusWithFullData() model.PostStatus {
	return model.PostStatus{ID: id(7017), Status: "responsible"}
}

func PostStatusWithNewData() model.PostStatus {
	return model.PostStatus{Status: "eyeglasses"}
}

func PostWithRequiredData() model.Post {
	return model.Post{
		ID:         id(8730),
		Title:      "lawful above unless",
		CreateTime: at("2025-04-10T10:53"),
		UpdateTime: at("2025-04-10T12:12"),
	}
}

func PostWithPartialData() model.Post {
	return model.Post{
		ID:         id(26014),
		Title:      "boohoo",
		CreateTime: at("2025-04-11T07:34"),
		UpdateTime: at("2025-04-11T03:44"),
	}
}

func PostWithFullData() model.Post {
	return model.Post{
		ID:         id(9917),
		Title:      "clearly darn icy",
		Content:    str("wide recount"),
		CreateTime: at("2025-04-10T13:48"),
		UpdateTime: at("2025-04-10T19:37"),
	}
}

func PostWithNewData() model.Post {
	return model.Post{
		Title:      "willfully settler",
		CreateTime: at("2025-04-10T10:35"),
		UpdateTime: at("2025-04-10T13:53"),
	}
}

func CommentWithRequiredData() model.Comment {
	return model.Comment{ID: id(20452), Content: "and better", CreateTime: at("2025-04-10T18:30")}
}

func CommentWithPartialData() model.Comment {
	return model.Comment{ID: id(12398), Content: "immediately", CreateTime: at("2025-04-10T21:43")}
}

func CommentWithFullData() model.Comment {
	return model.Comment{ID: id(28427), Content: "testing ugh", CreateTime: at("2025-04-10T22:40")}
}

func CommentWithNewData() model.Comment {
	return model.Comment{Content: "metabolise pish jubilant", CreateTime: at("2025-04-10T21:23")}
}

func AuthorityWithRequiredData() model.Authority {
	return model.Authority{Name: "ROLE_MODERATOR"}
}
