package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// HistoryMixin provides the ordering fields of a history row.
type HistoryMixin struct {
	mixin.Schema
}

func (HistoryMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("One above the highest sequence in the table at insert time"),
		field.Int64("created_at").
			Immutable().
			Comment("Unix milliseconds of the export attempt"),
	}
}

func (HistoryMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
	}
}

// Export records one worksheet export attempt, successful or not. The
// store package creates the table from this layout and queries it with
// ent's SQL builder.
type Export struct {
	ent.Schema
}

func (Export) Mixin() []ent.Mixin {
	return []ent.Mixin{HistoryMixin{}}
}

func (Export) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable().
			Comment("UUID"),
		field.String("header").
			Comment("Worksheet title after defaulting"),
		field.String("family").
			Default("").
			Comment("Problem family: mean, median; empty for the sample"),
		field.Int("problem_count").
			Default(0),
		field.String("source_path").
			Default(""),
		field.String("pdf_path").
			Default(""),
		field.String("preview_path").
			Default("").
			Comment("Empty when rasterization failed"),
		field.Bool("degraded").
			Default(false).
			Comment("Compiler exited non-zero but a PDF was produced"),
		field.Bool("success").
			Default(false),
		field.String("error_message").
			Default("").
			Comment("First line of the render error if failed"),
	}
}

func (Export) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("family"),
		index.Fields("success"),
	}
}
