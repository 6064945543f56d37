// Package i18n supplies the interface strings for the two supported
// interface languages. Lookups never fail: an unknown key is returned
// verbatim so a missing translation is visible instead of silent.
package i18n

const defaultLanguage = "es-ES"

var tables = map[string]map[string]string{
	"es-ES": {
		"progress":              "Progreso",
		"no_metadata":           "No hay metadata disponible.",
		"movies_available":      "Películas disponibles:",
		"file":                  "Archivo",
		"unknown":               "Desconocido",
		"select_movie":          "Selecciona el número de la película que deseas actualizar (o 0 para cancelar): ",
		"updating_metadata_for": "Actualizando metadatos para",
		"results_for":           "Resultados para",
		"minutes":               "minutos",
		"processing_files":      "Procesando %d archivos...",
		"operation_summary":     "=== Resumen de la operación ===",
		"file_generated":        "Archivo generado:",
		"total_files_processed": "Total de archivos procesados:",
		"movies_found":          "Películas encontradas:",
		"movies_not_found":      "Películas no encontradas:",
		"images_downloaded":     "Imágenes descargadas:",
		"posters":               "Posters (boxfront)",
		"screenshots":           "Capturas (screenshot)",
		"logos":                 "Logos (wheel)",
		"trailers":              "Tráilers descargados",
		"select_correct_movie":  "Selecciona el número de la película correcta (o 0 para cancelar): ",
		"metadata_updated":      "Metadatos actualizados para:",
		"no_description":        "Sin descripción disponible",
		"title":                 "título",
		"year":                  "año",
		"original_title":        "título original",
		"duration":              "duración",
		"description":           "descripción",
		"genres":                "géneros",
	},
	"en-US": {
		"progress":              "Progress",
		"no_metadata":           "No metadata available.",
		"movies_available":      "Available movies:",
		"file":                  "File",
		"unknown":               "Unknown",
		"select_movie":          "Select the movie number to update (or 0 to cancel): ",
		"updating_metadata_for": "Updating metadata for",
		"results_for":           "Results for",
		"minutes":               "minutes",
		"processing_files":      "Processing %d files...",
		"operation_summary":     "=== Operation Summary ===",
		"file_generated":        "Generated file:",
		"total_files_processed": "Total files processed:",
		"movies_found":          "Movies found:",
		"movies_not_found":      "Movies not found:",
		"images_downloaded":     "Downloaded images:",
		"posters":               "Posters (boxfront)",
		"screenshots":           "Screenshots",
		"logos":                 "Logos (wheel)",
		"trailers":              "Downloaded trailers",
		"select_correct_movie":  "Select the correct movie number (or 0 to cancel): ",
		"metadata_updated":      "Metadata updated for:",
		"no_description":        "No description available",
		"title":                 "title",
		"year":                  "year",
		"original_title":        "original title",
		"duration":              "duration",
		"description":           "description",
		"genres":                "genres",
	},
}

// T returns the translation of key for the given interface language,
// falling back to the default language table and finally to the key itself.
func T(lang, key string) string {
	table, ok := tables[lang]
	if !ok {
		table = tables[defaultLanguage]
	}
	if value, ok := table[key]; ok {
		return value
	}
	if value, ok := tables[defaultLanguage][key]; ok {
		return value
	}
	return key
}

// Supported reports whether lang has a dedicated translation table.
func Supported(lang string) bool {
	_, ok := tables[lang]
	return ok
}
