package lexeme

import "github.com/c360studio/semlex/lexeme"

// ClassMap maps entity types to their RDF classes.
var ClassMap = map[lexeme.EntityType][]string{
	lexeme.EntityTypeLexeme: {ClassLexicalEntry, ClassWikibaseLexeme},
	lexeme.EntityTypeForm:   {ClassForm, ClassWikibaseForm},
	lexeme.EntityTypeSense:  {ClassLexicalSense, ClassWikibaseSense},
}

// TypesFor returns the RDF classes of an entity type.
func TypesFor(t lexeme.EntityType) []string {
	return ClassMap[t]
}
