package validators

import "go.mongodb.org/mongo-driver/bson"

var StepRunValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"invocation",
			"step",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// "<invocation>:<step>"
			"_id": bson.M{
				"bsonType": "string",
			},

			"invocation": bson.M{
				"bsonType": "string",
			},

			"step": bson.M{
				"bsonType": "string",
			},

			"status": bson.M{
				"enum": []string{"sleeping", "completed"},
			},

			"result": bson.M{
				"bsonType": "binData",
			},

			"wake_at": bson.M{
				"bsonType": "date",
			},

			"completed_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
