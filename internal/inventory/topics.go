package inventory

import "strconv"

const TopicActivity = "inventory.activity"

// Partition key = activity id, so the feed consumer sees one activity's
// events in order.
func PartitionKey(activityID int) []byte {
	return []byte(strconv.Itoa(activityID))
}
