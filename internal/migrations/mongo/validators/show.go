package validators

import "go.mongodb.org/mongo-driver/bson"

var ShowValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"movie",
			"show_date_time",
			"show_price",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"movie": bson.M{
				"bsonType": "string",
			},

			"show_date_time": bson.M{
				"bsonType": "date",
			},

			"show_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			// Seat label -> holder's user ID.
			"occupied_seats": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "string",
				},
			},
		},
	},
}
