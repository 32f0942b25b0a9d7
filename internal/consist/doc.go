// Package consist reads MSTS consist (.con) files into a train.
//
// A consist is a Train block holding one TrainCfg. Each Engine or Wagon
// entry inside it names a vehicle by a UiD and an EngineData/WagonData
// reference; the reference is resolved against the trainset and the
// resulting car is appended to the train in file order. Problems inside a
// single entry are logged and skipped; only an unreadable container or a
// consist outside the TRAINS layout fails the load.
package consist
