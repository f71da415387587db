package vo

import "time"

type Bucket struct {
	Name string
	From time.Duration
	To   time.Duration
}

type BucketList []Bucket

// Find returns the bucket a capture duration falls into.
func (bl BucketList) Find(d time.Duration) (b Bucket, ok bool) {
	for _, bucket := range bl {
		if d >= bucket.From && d < bucket.To {
			return bucket, true
		}
	}
	return
}

func GetBucketList() BucketList {
	return BucketList{
		Bucket{
			Name: "instant",
			From: time.Duration(0),
			To:   time.Duration(time.Millisecond * 500),
		},
		Bucket{
			Name: "quick",
			From: time.Duration(time.Millisecond * 500),
			To:   time.Duration(time.Second * 2),
		},
		Bucket{
			Name: "ok, a handful of assets",
			From: time.Duration(time.Second * 2),
			To:   time.Duration(time.Second * 5),
		},
		Bucket{
			Name: "slow, lots of assets or a slow origin",
			From: time.Duration(time.Second * 5),
			To:   time.Duration(time.Second * 15),
		},
		Bucket{
			Name: "really slow, check the unchanged references",
			From: time.Duration(time.Second * 15),
			To:   time.Duration(time.Minute),
		},
		Bucket{
			Name: "end of the world - something timed out",
			From: time.Duration(time.Minute),
			To:   time.Duration(time.Hour * 24),
		},
	}
}
