package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"email",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// Identity-provider ID, not an ObjectId.
			"_id": bson.M{
				"bsonType": "string",
			},

			"name": bson.M{
				"bsonType": "string",
			},

			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 320,
			},

			"image": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
