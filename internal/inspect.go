package internal

import (
	"strings"

	"github.com/mama165/sdk-go/database"
	"github.com/tidwall/gjson"
)

// Record is one badger entry as shown by the inspectors.
type Record struct {
	Type   string
	Detail string
}

// Describe reads the JSON value of a store entry without decoding it into a domain type.
// Index entries hold raw keys and are reported as such.
func Describe(key string, val []byte) Record {
	kind, _, _ := strings.Cut(key, ":")
	if kind == "idx" {
		return Record{Type: "INDEX", Detail: string(val)}
	}
	if !gjson.ValidBytes(val) {
		return Record{Type: strings.ToUpper(kind), Detail: "Error: not a JSON value"}
	}
	doc := gjson.ParseBytes(val)
	var detail string
	switch kind {
	case "msg":
		detail = doc.Get("senderId").String() + ": " + doc.Get("content").String()
		if n := doc.Get("reactions.#").Int(); n > 0 {
			detail += " (" + doc.Get("reactions.#.emoji").String() + ")"
		}
	case "dm":
		detail = doc.Get("senderId").String() + " -> " + doc.Get("receiverId").String() + ": " + doc.Get("content").String()
		if doc.Get("isDeleted").Bool() {
			detail += " [deleted]"
		}
	case "channel":
		detail = doc.Get("name").String()
		if doc.Get("isPrivate").Bool() {
			detail += " [private: " + doc.Get("allowedUsers").Raw + "]"
		}
	case "user":
		detail = doc.Get("username").String() + " <" + doc.Get("email").String() + ">"
	case "workspace":
		detail = doc.Get("name").String() + " owned by " + doc.Get("ownerId").String()
	case "friend":
		detail = doc.Get("userId").String() + " / " + doc.Get("friendId").String() + " " + doc.Get("status").String()
	default:
		detail = doc.Raw
	}
	return Record{Type: strings.ToUpper(kind), Detail: detail}
}

// InspectMapper feeds the badger debug server.
func InspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	record := Describe(key, val)
	row.Type = record.Type
	row.Detail = record.Detail
	return row
}
