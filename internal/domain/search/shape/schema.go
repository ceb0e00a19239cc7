package shape

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["keywords", "filters", "place_names", "local_intent"],
  "additionalProperties": false,
  "properties": {
    "keywords": {
      "type": "array",
      "maxItems": 8,
      "uniqueItems": true,
      "items": {"type": "string", "minLength": 4, "pattern": "^[^A-Z\\s]+$"}
    },
    "place_names": {"$ref": "#/definitions/stringList"},
    "local_intent": {"type": "boolean"},
    "filters": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "category": {"enum": ["farm", "ranch", "eatery"]},
        "commodities": {"$ref": "#/definitions/stringList"},
        "variants": {"$ref": "#/definitions/stringList"},
        "certifications": {"$ref": "#/definitions/stringList"},
        "organic_only": {"type": "boolean"},
        "verified": {"type": "boolean"},
        "is_claimed": {"type": "boolean"},
        "locality": {"type": "string"},
        "admin_area": {"type": "string"},
        "country": {"type": "string"},
        "subscription_rank": {"$ref": "#/definitions/range"},
        "avg_rating": {"$ref": "#/definitions/range"},
        "bayes_avg": {"$ref": "#/definitions/range"},
        "review_count": {"$ref": "#/definitions/range"},
        "ids": {"$ref": "#/definitions/stringList"},
        "exclude_ids": {"$ref": "#/definitions/stringList"},
        "geo": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "bounds": {
              "type": "object",
              "required": ["south", "west", "north", "east"],
              "properties": {
                "south": {"type": "number"},
                "west": {"type": "number"},
                "north": {"type": "number"},
                "east": {"type": "number"}
              }
            },
            "center_radius": {
              "type": "object",
              "required": ["lat", "lon", "radius_km"],
              "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "radius_km": {"type": "number", "exclusiveMinimum": 0}
              }
            }
          }
        }
      }
    }
  },
  "definitions": {
    "stringList": {"type": "array", "items": {"type": "string"}},
    "range": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "min": {"type": "number"},
        "max": {"type": "number"}
      }
    }
  }
}`
