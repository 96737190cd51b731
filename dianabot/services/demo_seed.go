package services

import (
	"context"
	"log/slog"
)

// DemoStoryJSON is the seed chapter used for manual testing and as the
// reference shape of an authoring document: one entry fragment, two branches,
// one shared ending.
const DemoStoryJSON = `{
  "type": "chapter",
  "chapter": {
    "name": "El Encuentro",
    "slug": "el-encuentro",
    "chapter_type": "free",
    "description": "El primer encuentro con Diana.",
    "order": 1
  },
  "fragments": [
    {
      "fragment_key": "encuentro_inicio",
      "title": "Una puerta entreabierta",
      "speaker": "Diana",
      "content": "Hola... no esperaba verte por aquí. ¿Entras o te quedas mirando?",
      "order": 1,
      "is_entry_point": true,
      "decisions": [
        {"button_text": "Entrar sin dudar", "target_fragment_key": "encuentro_directo", "grants_besitos": 5, "affects_archetype": "impulsive"},
        {"button_text": "Quedarme un momento", "target_fragment_key": "encuentro_pausa", "affects_archetype": "contemplative"}
      ]
    },
    {
      "fragment_key": "encuentro_directo",
      "title": "Sin dudar",
      "speaker": "Diana",
      "content": "Me gusta la gente decidida. Pasa, ponte cómodo.",
      "order": 2,
      "decisions": [
        {"button_text": "Sentarme a su lado", "target_fragment_key": "encuentro_final"}
      ]
    },
    {
      "fragment_key": "encuentro_pausa",
      "title": "La espera",
      "speaker": "Diana",
      "content": "Tomarse el tiempo también dice mucho de ti...",
      "order": 3,
      "decisions": [
        {"button_text": "Entrar al fin", "target_fragment_key": "encuentro_final"}
      ]
    },
    {
      "fragment_key": "encuentro_final",
      "title": "El comienzo de algo",
      "speaker": "Diana",
      "content": "Esto es solo el principio. Vuelve pronto, ¿sí?",
      "order": 4,
      "is_ending": true
    }
  ]
}`

// SeedDemoStory installs the demo chapter through the importer, updating
// fragments that already exist.
func SeedDemoStory(ctx context.Context, importer *StoryImporter) error {
	payload, err := importer.Decode([]byte(DemoStoryJSON))
	if err != nil {
		return err
	}

	resolutions := make(map[string]Resolution, len(payload.Fragments))
	for _, f := range payload.Fragments {
		resolutions[f.FragmentKey] = ResolutionUpdate
	}

	report, err := importer.Import(ctx, payload, resolutions)
	if err != nil {
		return err
	}

	slog.Info("Demo story seeded",
		slog.String("chapter", report.ChapterSlug),
		slog.Int("created", report.CreatedFragments),
		slog.Int("updated", report.UpdatedFragments),
	)
	return nil
}
