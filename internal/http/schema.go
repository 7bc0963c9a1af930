package http

import (
	"embed"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

type schemas struct {
	contact      *gojsonschema.Schema
	register     *gojsonschema.Schema
	userUpdate   *gojsonschema.Schema
	adminContact *gojsonschema.Schema
	category     *gojsonschema.Schema
	listEdit     *gojsonschema.Schema
}

func loadSchemas() (*schemas, error) {
	load := func(name string) (*gojsonschema.Schema, error) {
		raw, err := schemaFiles.ReadFile("schemas/" + name + ".schema.json")
		if err != nil {
			return nil, err
		}
		return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	}
	var (
		s   schemas
		err error
	)
	for name, dst := range map[string]**gojsonschema.Schema{
		"contact":       &s.contact,
		"register":      &s.register,
		"user_update":   &s.userUpdate,
		"admin_contact": &s.adminContact,
		"category":      &s.category,
		"list_edit":     &s.listEdit,
	} {
		if *dst, err = load(name); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// bindJSON checks the request body against schema before decoding it into
// dst. On failure the response has been written and false is returned.
func bindJSON(c *gin.Context, schema *gojsonschema.Schema, dst any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "failed to read body"})
		return false
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid_json"})
		return false
	}
	if !res.Valid() {
		d := []string{}
		for _, e := range res.Errors() {
			d = append(d, e.String())
		}
		c.JSON(422, gin.H{"error": "schema_invalid", "details": d})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return false
	}
	return true
}
